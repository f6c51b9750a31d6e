package entity

import (
	"database/sql/driver"
	"fmt"
	"strconv"
)

// Uint64 is stored in a signed BIGINT column by reinterpreting its bits, so the
// full uint64 range survives the round trip. SQL ordering of values at or above
// 1<<63 is not numeric.
type Uint64 uint64

func (u Uint64) Value() (driver.Value, error) {
	return int64(u), nil
}

func (u *Uint64) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*u = Uint64(v)
	case []byte:
		return u.parse(string(v))
	case string:
		return u.parse(v)
	default:
		return fmt.Errorf("can't scan %T into Uint64", src)
	}
	return nil
}

func (u *Uint64) parse(s string) error {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("can't parse Uint64: %w", err)
	}
	*u = Uint64(v)
	return nil
}
