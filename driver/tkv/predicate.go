package tkv

import (
	"errors"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/tarantool/go-state/predicate"
)

var (
	// ErrUnknownOperator is returned when the operator is unknown.
	ErrUnknownOperator = errors.New("unknown operator")

	_ msgpack.CustomEncoder = tkvPredicate{} //nolint:exhaustruct

	//nolint: gochecknoglobals
	operators = map[predicate.Op]string{
		predicate.OpEqual:    "==",
		predicate.OpNotEqual: "!=",
		predicate.OpGreater:  ">",
		predicate.OpLess:     "<",
	}
)

const (
	predicateArrayLen = 4
	versionTarget     = "mod_revision"
)

type tkvPredicate struct {
	predicate.Predicate
}

func newTKVPredicates(predicates []predicate.Predicate) []tkvPredicate {
	tkvPredicates := make([]tkvPredicate, 0, len(predicates))
	for _, p := range predicates {
		tkvPredicates = append(tkvPredicates, tkvPredicate{p})
	}

	return tkvPredicates
}

// EncodeMsgpack writes {"mod_revision", operator, version, key}.
func (p tkvPredicate) EncodeMsgpack(encoder *msgpack.Encoder) error {
	op, ok := operators[p.Operation()]
	if !ok {
		return ErrUnknownOperator
	}

	if err := encoder.EncodeArrayLen(predicateArrayLen); err != nil {
		return errEncodePredicate("encode array length", err)
	}

	if err := encoder.EncodeString(versionTarget); err != nil {
		return errEncodePredicate("encode target", err)
	}

	if err := encoder.EncodeString(op); err != nil {
		return errEncodePredicate("encode operator", err)
	}

	if err := encoder.EncodeInt(p.Version()); err != nil {
		return errEncodePredicate("encode version", err)
	}

	if err := encoder.EncodeString(string(p.Key())); err != nil {
		return errEncodePredicate("encode key", err)
	}

	return nil
}
