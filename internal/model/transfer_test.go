package model

import (
	"testing"

	"github.com/dusk-network/xsc-governance/internal/identity"
)

func TestTransferSingleParty(t *testing.T) {
	to := identity.Derive([]byte("Cash"))
	from := identity.Derive([]byte("TestAccount1"))

	dep := Deposit(to, 100, 1)
	if _, ok := dep.To(); !ok {
		t.Error("deposit has no to party")
	}
	if _, ok := dep.From(); ok {
		t.Error("deposit exposes a from party")
	}

	wd := Withdrawal(from, 50, 2)
	if _, ok := wd.From(); !ok {
		t.Error("withdrawal has no from party")
	}
	if _, ok := wd.To(); ok {
		t.Error("withdrawal exposes a to party")
	}
}

func TestTransferMapInsertionOrder(t *testing.T) {
	m := NewTransferMap()
	id := identity.Derive([]byte("Cash"))

	for i := uint64(0); i < 5; i++ {
		m.InsertTransfer(SecurityCash, Deposit(id, i, i))
	}
	m.InsertFee(SecurityCash, Withdrawal(id, 9, 9))

	batches := m.IntoBatches()
	b, ok := batches[SecurityCash]
	if !ok {
		t.Fatal("no Cash batch")
	}
	if len(b.Transfers) != 5 {
		t.Fatalf("len(Transfers) = %d, want 5", len(b.Transfers))
	}
	for i, tr := range b.Transfers {
		if tr.Amount() != uint64(i) {
			t.Errorf("Transfers[%d].Amount = %d, want %d", i, tr.Amount(), i)
		}
	}
	if len(b.Fees) != 1 {
		t.Fatalf("len(Fees) = %d, want 1", len(b.Fees))
	}
}

func TestTransferMapAutoCreate(t *testing.T) {
	m := NewTransferMap()
	id := identity.Derive([]byte("TSWE"))

	m.InsertTransfer(SecurityTSWE, Deposit(id, 1, 1))

	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestTransferMapConsumeTwicePanics(t *testing.T) {
	m := NewTransferMap()
	m.IntoBatches()

	defer func() {
		if recover() == nil {
			t.Error("second IntoBatches did not panic")
		}
	}()
	m.IntoBatches()
}

func TestSecuritiesSortedByCode(t *testing.T) {
	m := NewTransferMap()
	id := identity.Derive([]byte("x"))

	m.InsertTransfer(SecurityTCBT, Deposit(id, 1, 1))
	m.InsertTransfer(SecurityCash, Deposit(id, 1, 1))
	m.InsertTransfer(SecurityTRET, Deposit(id, 1, 1))

	secs := m.Securities()
	want := []SecurityDefinition{SecurityCash, SecurityTRET, SecurityTCBT}
	for i := range want {
		if secs[i] != want[i] {
			t.Errorf("Securities[%d] = %s, want %s", i, secs[i], want[i])
		}
	}
}

func TestContractIDsDistinct(t *testing.T) {
	secs := []SecurityDefinition{SecurityCash, SecurityTSWE, SecurityTRET, SecurityTGBT, SecurityTCBT}

	seen := make(map[[32]byte]SecurityDefinition)
	for _, sec := range secs {
		id := sec.ContractID()
		if prev, ok := seen[id]; ok {
			t.Errorf("%s shares contract id with %s", sec, prev)
		}
		seen[id] = sec
	}
}

func TestContractIDNonePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ContractID on SecurityNone did not panic")
		}
	}()
	SecurityNone.ContractID()
}

func TestParseSecurity(t *testing.T) {
	tests := []struct {
		in      string
		want    SecurityDefinition
		wantErr bool
	}{
		{"Cash", SecurityCash, false},
		{"TSWE", SecurityTSWE, false},
		{"None", SecurityNone, false},
		{"TCBT", SecurityTCBT, false},
		{"GOLD", SecurityNone, true},
		{"", SecurityNone, true},
	}

	for _, tt := range tests {
		got, err := ParseSecurity(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSecurity(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseSecurity(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
