package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dusk-network/xsc-governance/internal/model"
)

// AccountPolicy selects how many top-level accounts of a document are
// processed. The choice is explicit configuration, not an incidental
// default.
type AccountPolicy int

const (
	// AllAccounts processes every account in document order.
	AllAccounts AccountPolicy = iota

	// FirstAccount processes only the first account in document order.
	FirstAccount
)

// ParseAccountPolicy maps a config string to an AccountPolicy.
func ParseAccountPolicy(s string) (AccountPolicy, error) {
	switch s {
	case "all":
		return AllAccounts, nil
	case "first":
		return FirstAccount, nil
	}
	return 0, fmt.Errorf("unknown account policy %q", s)
}

func (p AccountPolicy) String() string {
	if p == FirstAccount {
		return "first"
	}
	return "all"
}

// MalformedError reports an input document that does not match the
// expected shape. Parsing is all-or-nothing: no partial event model is
// ever returned alongside one.
type MalformedError struct {
	Account string // offending account, if known
	Detail  string
}

func (e *MalformedError) Error() string {
	if e.Account == "" {
		return "malformed feed: " + e.Detail
	}
	return fmt.Sprintf("malformed feed: account %q: %s", e.Account, e.Detail)
}

func malformed(account, format string, args ...any) error {
	return &MalformedError{Account: account, Detail: fmt.Sprintf(format, args...)}
}

// unixEpochTAI64 is the TAI64 label of the Unix epoch (1<<62 + 10).
const unixEpochTAI64 = 4611686018427387914

// ToTAI64 converts a wall-clock instant to its TAI64 label. The label is
// stable and platform-independent, which keeps committed timestamps
// reproducible across runs and hosts.
func ToTAI64(t time.Time) uint64 {
	return uint64(t.Unix()) + unixEpochTAI64
}

// raw* types hold the generic decoded tree before validation. Pointers
// distinguish absent fields from zero values.
type rawEvents struct {
	Events *[]rawEvent `json:"events"`
}

type rawEvent struct {
	Cause      *string     `json:"cause"`
	Occurrence *string     `json:"occurrence"`
	Changes    []rawChange `json:"changes"`
}

type rawChange struct {
	Type     *string  `json:"type"`
	Security *string  `json:"securityDefinition"`
	Size     *float64 `json:"size"`
	Price    float64  `json:"price"`
}

// ParseFile reads and parses a feed document from disk.
func ParseFile(path string, policy AccountPolicy) ([]model.AccountEvents, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed file: %w", err)
	}
	return Parse(data, policy)
}

// Parse decodes a feed document. Account order follows document order,
// which matters under FirstAccount policy.
func Parse(data []byte, policy AccountPolicy) ([]model.AccountEvents, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed("", "invalid json: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, malformed("", "top level must be an object, got %v", tok)
	}

	var accounts []model.AccountEvents
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed("", "invalid json: %v", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, malformed("", "invalid account key %v", tok)
		}

		var body json.RawMessage
		if err := dec.Decode(&body); err != nil {
			return nil, malformed(name, "invalid account body: %v", err)
		}

		if policy == FirstAccount && len(accounts) == 1 {
			// Per configuration only the first account settles; the rest
			// of the document is still required to be well-formed json.
			continue
		}

		events, err := decodeAccount(name, body)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, model.AccountEvents{Account: name, Events: events})
	}

	if _, err := dec.Token(); err != nil {
		return nil, malformed("", "invalid json: %v", err)
	}
	if len(accounts) == 0 {
		return nil, malformed("", "document has no accounts")
	}
	return accounts, nil
}

func decodeAccount(name string, body json.RawMessage) ([]model.Event, error) {
	var raw rawEvents
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, malformed(name, "account body is not an object: %v", err)
	}
	if raw.Events == nil {
		return nil, malformed(name, "missing events key")
	}

	events := make([]model.Event, 0, len(*raw.Events))
	for i, re := range *raw.Events {
		ev, err := decodeEvent(name, i, re)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func decodeEvent(account string, idx int, re rawEvent) (model.Event, error) {
	if re.Cause == nil {
		return model.Event{}, malformed(account, "event %d: missing cause", idx)
	}
	cause, err := model.ParseCause(*re.Cause)
	if err != nil {
		return model.Event{}, malformed(account, "event %d: %v", idx, err)
	}

	if re.Occurrence == nil {
		return model.Event{}, malformed(account, "event %d: missing occurrence", idx)
	}
	when, err := time.Parse(time.RFC3339, *re.Occurrence)
	if err != nil {
		return model.Event{}, malformed(account, "event %d: bad occurrence: %v", idx, err)
	}

	changes := make([]model.Change, 0, len(re.Changes))
	for j, rc := range re.Changes {
		ch, err := decodeChange(account, idx, j, rc)
		if err != nil {
			return model.Event{}, err
		}
		changes = append(changes, ch)
	}

	return model.Event{
		Cause:      cause,
		Occurrence: ToTAI64(when),
		Changes:    changes,
	}, nil
}

func decodeChange(account string, eventIdx, changeIdx int, rc rawChange) (model.Change, error) {
	if rc.Type == nil {
		return model.Change{}, malformed(account, "event %d change %d: missing type", eventIdx, changeIdx)
	}
	ct, err := model.ParseChangeType(*rc.Type)
	if err != nil {
		return model.Change{}, malformed(account, "event %d change %d: %v", eventIdx, changeIdx, err)
	}

	if rc.Security == nil {
		return model.Change{}, malformed(account, "event %d change %d: missing securityDefinition", eventIdx, changeIdx)
	}
	sec, err := model.ParseSecurity(*rc.Security)
	if err != nil {
		return model.Change{}, malformed(account, "event %d change %d: %v", eventIdx, changeIdx, err)
	}

	if rc.Size == nil {
		return model.Change{}, malformed(account, "event %d change %d: missing size", eventIdx, changeIdx)
	}

	return model.Change{
		Type:     ct,
		Security: sec,
		Size:     *rc.Size,
		Price:    rc.Price,
	}, nil
}
