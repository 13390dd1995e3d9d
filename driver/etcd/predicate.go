package etcd

import (
	"fmt"

	etcd "go.etcd.io/etcd/client/v3"

	"github.com/tarantool/go-state/predicate"
)

// predicatesToCmps converts a predicate list to an etcd comparison list.
func predicatesToCmps(predicates []predicate.Predicate) ([]etcd.Cmp, error) {
	cmps := make([]etcd.Cmp, 0, len(predicates))

	for _, pred := range predicates {
		cmp, err := predicateToCmp(pred)
		if err != nil {
			return nil, err
		}

		cmps = append(cmps, cmp)
	}

	return cmps, nil
}

// predicateToCmp converts a version predicate to a mod_revision comparison.
func predicateToCmp(pred predicate.Predicate) (etcd.Cmp, error) {
	key := string(pred.Key())

	switch pred.Operation() {
	case predicate.OpEqual:
		return etcd.Compare(etcd.ModRevision(key), "=", pred.Version()), nil
	case predicate.OpNotEqual:
		return etcd.Compare(etcd.ModRevision(key), "!=", pred.Version()), nil
	case predicate.OpGreater:
		return etcd.Compare(etcd.ModRevision(key), ">", pred.Version()), nil
	case predicate.OpLess:
		return etcd.Compare(etcd.ModRevision(key), "<", pred.Version()), nil
	default:
		return etcd.Cmp{}, fmt.Errorf("%w: %v", errUnsupportedVersionOperation, pred.Operation())
	}
}
