package contract

import (
	"encoding/binary"

	"github.com/dusk-network/xsc-governance/internal/identity"
)

// Activity is one settled trade record reported to the contract.
type Activity struct {
	Sender    identity.Identifier
	Buyer     identity.Identifier
	Amount    uint64
	Timestamp uint64
}

const activityRecordSize = identity.Size*2 + 8 + 8

func (a Activity) encode(buf []byte) []byte {
	buf = append(buf, a.Sender.Bytes()...)
	buf = append(buf, a.Buyer.Bytes()...)
	buf = binary.LittleEndian.AppendUint64(buf, a.Amount)
	buf = binary.LittleEndian.AppendUint64(buf, a.Timestamp)
	return buf
}

// ActivityCall reports a list of trade activities.
type ActivityCall struct {
	Caller     identity.Identifier
	Signature  []byte
	Activities []Activity
}

// Message returns the bytes the caller signs: operation identifier,
// record count and the activity records.
func (c ActivityCall) Message() []byte {
	buf := make([]byte, 0, 1+8+activityRecordSize*len(c.Activities))
	buf = append(buf, OpActivity)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(c.Activities)))
	for _, a := range c.Activities {
		buf = a.encode(buf)
	}
	return buf
}

// Encode returns the wire payload: caller, signature, then the signed
// message body.
func (c ActivityCall) Encode() []byte {
	msg := c.Message()

	buf := make([]byte, 0, identity.Size+len(c.Signature)+len(msg))
	buf = append(buf, c.Caller.Bytes()...)
	buf = append(buf, c.Signature...)
	buf = append(buf, msg...)
	return buf
}
