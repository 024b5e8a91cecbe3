package ledger

import (
	"bytes"
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// ID identifies an entity in a snapshot.
//
// Generated ids are creation timestamps in Unix milliseconds. Snapshots
// written by older clients store them as JSON numbers, so both numbers and
// strings are accepted when decoding.
type ID string

// WalletID references the wallet wherever an account id is expected.
const WalletID ID = "wallet"

func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// idGenerator hands out millisecond timestamps that are strictly increasing
// within the process, even when two ids are requested in the same millisecond.
type idGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func newIDGenerator(now func() time.Time) *idGenerator {
	return &idGenerator{now: now}
}

func (g *idGenerator) next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return ID(strconv.FormatInt(ms, 10))
}
