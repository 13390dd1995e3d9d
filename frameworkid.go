package state

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const frameworkIDKey = "frameworkId"

// frameworkIDValueField is the field number of the value in the cluster
// manager's FrameworkID message.
const frameworkIDValueField protowire.Number = 1

var errMissingValue = errors.New("required field 'value' is missing")

// FrameworkID is the identity assigned to the scheduler by the cluster manager.
// It is stored in the protobuf wire format of the manager's FrameworkID message.
type FrameworkID struct {
	Value string
}

// EmptyFrameworkID is returned when no identity has been stored yet.
var EmptyFrameworkID = FrameworkID{Value: ""} //nolint:gochecknoglobals

// IsEmpty reports whether id is the empty identity.
func (id FrameworkID) IsEmpty() bool {
	return id.Value == ""
}

func (id FrameworkID) String() string {
	return id.Value
}

func (id FrameworkID) marshal() []byte {
	out := protowire.AppendTag(nil, frameworkIDValueField, protowire.BytesType)

	return protowire.AppendString(out, id.Value)
}

func unmarshalFrameworkID(data []byte) (FrameworkID, error) {
	var (
		id    FrameworkID
		found bool
	)

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return EmptyFrameworkID, fmt.Errorf("bad tag: %w", protowire.ParseError(n))
		}

		data = data[n:]

		if num == frameworkIDValueField && typ == protowire.BytesType {
			value, m := protowire.ConsumeString(data)
			if m < 0 {
				return EmptyFrameworkID, fmt.Errorf("bad value: %w", protowire.ParseError(m))
			}

			id.Value = value
			found = true
			data = data[m:]

			continue
		}

		// Skip unknown fields.
		m := protowire.ConsumeFieldValue(num, typ, data)
		if m < 0 {
			return EmptyFrameworkID, fmt.Errorf("bad field %d: %w", num, protowire.ParseError(m))
		}

		data = data[m:]
	}

	if !found {
		return EmptyFrameworkID, errMissingValue
	}

	return id, nil
}
