// Package csvfeed reads whitelist mutations and trade activity records
// from CSV import files.
package csvfeed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mr-tron/base58"

	"github.com/dusk-network/xsc-governance/internal/contract"
	"github.com/dusk-network/xsc-governance/internal/feed"
	"github.com/dusk-network/xsc-governance/internal/identity"
)

// ParseWhitelistFile reads whitelist mutations from a headerless CSV
// file with rows of the form "add,<base58>" or "remove,<base58>".
func ParseWhitelistFile(path string) ([]contract.WhitelistEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open whitelist file: %w", err)
	}
	defer f.Close()
	return ParseWhitelist(f)
}

// ParseWhitelist reads whitelist mutations from r.
func ParseWhitelist(r io.Reader) ([]contract.WhitelistEntry, error) {
	cr := newReader(r, 2)

	var entries []contract.WhitelistEntry
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read whitelist record: %w", err)
		}

		var op contract.WhitelistOp
		switch strings.TrimSpace(rec[0]) {
		case "add":
			op = contract.WhitelistAdd
		case "remove":
			op = contract.WhitelistRemove
		default:
			return nil, fmt.Errorf("line %d: unknown whitelist operation %q", line, rec[0])
		}

		addr, err := contract.ParseAddress(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, contract.WhitelistEntry{Op: op, Address: addr})
	}
	return entries, nil
}

// ParseActivityFile reads trade activity records from a headerless CSV
// file with rows of the form "<sender>,<buyer>,<amount>,<timestamp>",
// where sender and buyer are base58 public keys and timestamp is
// RFC 3339.
func ParseActivityFile(path string) ([]contract.Activity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open activity file: %w", err)
	}
	defer f.Close()
	return ParseActivity(f)
}

// ParseActivity reads trade activity records from r.
func ParseActivity(r io.Reader) ([]contract.Activity, error) {
	cr := newReader(r, 4)

	var activities []contract.Activity
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read activity record: %w", err)
		}

		sender, err := parseKey(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: sender: %w", line, err)
		}
		buyer, err := parseKey(rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: buyer: %w", line, err)
		}
		amount, err := strconv.ParseUint(strings.TrimSpace(rec[2]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: amount: %w", line, err)
		}
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(rec[3]))
		if err != nil {
			return nil, fmt.Errorf("line %d: timestamp: %w", line, err)
		}

		activities = append(activities, contract.Activity{
			Sender:    sender,
			Buyer:     buyer,
			Amount:    amount,
			Timestamp: feed.ToTAI64(ts),
		})
	}
	return activities, nil
}

func newReader(r io.Reader, fields int) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.TrimLeadingSpace = true
	return cr
}

func parseKey(s string) (identity.Identifier, error) {
	var id identity.Identifier
	raw, err := base58.Decode(strings.TrimSpace(s))
	if err != nil {
		return id, fmt.Errorf("decode base58 key %q: %w", s, err)
	}
	if len(raw) != identity.Size {
		return id, fmt.Errorf("key %q decodes to %d bytes, want %d", s, len(raw), identity.Size)
	}
	copy(id[:], raw)
	return id, nil
}
