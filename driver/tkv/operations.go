package tkv

import (
	"errors"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tarantool/go-state/operation"
)

// ErrUnknownOperation is returned when the operation is unknown.
var ErrUnknownOperation = errors.New("unknown operation")

const (
	putOperationArrayLen = 3
	getOperationArrayLen = 2
)

type tkvOperation struct {
	operation.Operation
}

var _ msgpack.CustomEncoder = tkvOperation{} //nolint:exhaustruct

func newTKVOperations(operations []operation.Operation) []tkvOperation {
	tkvOperations := make([]tkvOperation, 0, len(operations))
	for _, o := range operations {
		tkvOperations = append(tkvOperations, tkvOperation{o})
	}

	return tkvOperations
}

// EncodeMsgpack writes {"get", key} or {"put", key, value}.
// Keys and values go out as msgpack strings, which is what the config
// storage expects.
func (o tkvOperation) EncodeMsgpack(encoder *msgpack.Encoder) error {
	switch o.Type() {
	case operation.TypePut:
		if err := encoder.EncodeArrayLen(putOperationArrayLen); err != nil {
			return errEncodeOperation("encode put operation array length", err)
		}

		if err := encoder.EncodeString("put"); err != nil {
			return errEncodeOperation("encode put operation", err)
		}

		if err := encoder.EncodeString(string(o.Key())); err != nil {
			return errEncodeOperation("encode put operation key", err)
		}

		if err := encoder.EncodeString(string(o.Value())); err != nil {
			return errEncodeOperation("encode put operation value", err)
		}
	case operation.TypeGet:
		if err := encoder.EncodeArrayLen(getOperationArrayLen); err != nil {
			return errEncodeOperation("encode get operation array length", err)
		}

		if err := encoder.EncodeString("get"); err != nil {
			return errEncodeOperation("encode get operation", err)
		}

		if err := encoder.EncodeString(string(o.Key())); err != nil {
			return errEncodeOperation("encode get operation key", err)
		}
	default:
		return ErrUnknownOperation
	}

	return nil
}
