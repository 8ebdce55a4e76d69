package feed

import (
	"errors"
	"testing"
	"time"

	"github.com/dusk-network/xsc-governance/internal/model"
)

const sampleDoc = `{
  "Acct1": {
    "events": [
      {
        "cause": "Deposit",
        "occurrence": "2022-09-25T10:00:00Z",
        "changes": [
          {"type": "Cash", "size": 100000.0, "securityDefinition": "None", "price": 1.0}
        ]
      },
      {
        "cause": "Rebalance",
        "occurrence": "2022-09-26T12:00:00Z",
        "changes": [
          {"type": "Cash", "size": -99814.8, "securityDefinition": "None", "price": 1.0},
          {"type": "Security", "size": 984.0, "securityDefinition": "TSWE", "price": 25.36}
        ]
      }
    ]
  },
  "Acct2": {
    "events": [
      {
        "cause": "Fee",
        "occurrence": "2023-01-27T14:59:11.439Z",
        "changes": [
          {"type": "Cash", "size": 12.5, "securityDefinition": "None", "price": 1.0}
        ]
      }
    ]
  }
}`

func TestParseAllAccounts(t *testing.T) {
	accounts, err := Parse([]byte(sampleDoc), AllAccounts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(accounts) != 2 {
		t.Fatalf("len(accounts) = %d, want 2", len(accounts))
	}
	if accounts[0].Account != "Acct1" || accounts[1].Account != "Acct2" {
		t.Errorf("account order = %q, %q; want Acct1, Acct2", accounts[0].Account, accounts[1].Account)
	}

	events := accounts[0].Events
	if len(events) != 2 {
		t.Fatalf("len(Acct1 events) = %d, want 2", len(events))
	}
	if events[0].Cause != model.CauseDeposit {
		t.Errorf("events[0].Cause = %s, want Deposit", events[0].Cause)
	}
	if events[1].Cause != model.CauseRebalance {
		t.Errorf("events[1].Cause = %s, want Rebalance", events[1].Cause)
	}

	reb := events[1].Changes
	if len(reb) != 2 {
		t.Fatalf("len(rebalance changes) = %d, want 2", len(reb))
	}
	if reb[0].Type != model.ChangeCash || reb[0].Size != -99814.8 {
		t.Errorf("changes[0] = %+v, want Cash size -99814.8", reb[0])
	}
	if reb[1].Security != model.SecurityTSWE || reb[1].Price != 25.36 {
		t.Errorf("changes[1] = %+v, want TSWE price 25.36", reb[1])
	}
}

func TestParseFirstAccount(t *testing.T) {
	accounts, err := Parse([]byte(sampleDoc), FirstAccount)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("len(accounts) = %d, want 1", len(accounts))
	}
	if accounts[0].Account != "Acct1" {
		t.Errorf("account = %q, want Acct1", accounts[0].Account)
	}
}

func TestParseOccurrenceTAI64(t *testing.T) {
	accounts, err := Parse([]byte(sampleDoc), AllAccounts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	when, _ := time.Parse(time.RFC3339, "2022-09-25T10:00:00Z")
	want := uint64(when.Unix()) + unixEpochTAI64
	if got := accounts[0].Events[0].Occurrence; got != want {
		t.Errorf("Occurrence = %d, want %d", got, want)
	}
}

func TestToTAI64(t *testing.T) {
	// TAI64 label of the Unix epoch itself.
	if got := ToTAI64(time.Unix(0, 0)); got != unixEpochTAI64 {
		t.Errorf("ToTAI64(epoch) = %d, want %d", got, unixEpochTAI64)
	}
	if got := ToTAI64(time.Unix(1664100000, 0)); got != 1664100000+uint64(unixEpochTAI64) {
		t.Errorf("ToTAI64 = %d", got)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", "not json"},
		{"top level array", `[{"events": []}]`},
		{"top level string", `"hello"`},
		{"account body not object", `{"A": 42}`},
		{"missing events key", `{"A": {"transactions": []}}`},
		{"unknown cause", `{"A": {"events": [{"cause": "Dividend", "occurrence": "2022-09-25T10:00:00Z", "changes": []}]}}`},
		{"missing cause", `{"A": {"events": [{"occurrence": "2022-09-25T10:00:00Z", "changes": []}]}}`},
		{"bad occurrence", `{"A": {"events": [{"cause": "Deposit", "occurrence": "yesterday", "changes": []}]}}`},
		{"missing occurrence", `{"A": {"events": [{"cause": "Deposit", "changes": []}]}}`},
		{"unknown change type", `{"A": {"events": [{"cause": "Deposit", "occurrence": "2022-09-25T10:00:00Z", "changes": [{"type": "Margin", "size": 1, "securityDefinition": "None"}]}]}}`},
		{"unknown security", `{"A": {"events": [{"cause": "Deposit", "occurrence": "2022-09-25T10:00:00Z", "changes": [{"type": "Cash", "size": 1, "securityDefinition": "GOLD"}]}]}}`},
		{"missing size", `{"A": {"events": [{"cause": "Deposit", "occurrence": "2022-09-25T10:00:00Z", "changes": [{"type": "Cash", "securityDefinition": "None"}]}]}}`},
		{"empty document", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), AllAccounts)
			if err == nil {
				t.Fatal("Parse accepted malformed document")
			}
			var me *MalformedError
			if !errors.As(err, &me) {
				t.Errorf("error %v is not a MalformedError", err)
			}
		})
	}
}

func TestParseIgnoresUnknownFields(t *testing.T) {
	// The upstream feed carries bookkeeping fields the model does not use.
	doc := `{"A": {"events": [{"cause": "Deposit", "occurrence": "2022-09-25T10:00:00Z",
	  "changes": [{"type": "Cash", "size": 5.0, "securityDefinition": "None", "price": 1.0,
	  "accountExternalId": "A"}]}]}}`

	accounts, err := Parse([]byte(doc), AllAccounts)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if accounts[0].Events[0].Changes[0].Size != 5.0 {
		t.Error("size not decoded")
	}
}

func TestParseAccountPolicy(t *testing.T) {
	if p, err := ParseAccountPolicy("all"); err != nil || p != AllAccounts {
		t.Errorf("ParseAccountPolicy(all) = %v, %v", p, err)
	}
	if p, err := ParseAccountPolicy("first"); err != nil || p != FirstAccount {
		t.Errorf("ParseAccountPolicy(first) = %v, %v", p, err)
	}
	if _, err := ParseAccountPolicy("some"); err == nil {
		t.Error("ParseAccountPolicy(some) accepted")
	}
}
