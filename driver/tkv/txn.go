package tkv

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tarantool/go-state/operation"
	"github.com/tarantool/go-state/predicate"
	"github.com/tarantool/go-state/tx"
	"github.com/tarantool/go-state/variable"
)

type txnOpResponse struct {
	Response []struct {
		Path        []byte `msgpack:"path"`
		ModRevision int64  `msgpack:"mod_revision"`
		Value       []byte `msgpack:"value"`
	}
}

func (t *txnOpResponse) DecodeMsgpack(decoder *msgpack.Decoder) error {
	return errDecodeOpResponse(decoder.Decode(&t.Response))
}

type txnResponseData struct {
	IsSuccess bool            `msgpack:"is_success"`
	Responses []txnOpResponse `msgpack:"responses"`
}

type txnResponse struct {
	Data     txnResponseData `msgpack:"data"`
	Revision int64           `msgpack:"revision"`
}

// asTxnResponse converts the stored procedure result. Entries without a
// mod_revision inherit the revision of the whole response.
func (r txnResponse) asTxnResponse() tx.Response {
	results := make([]tx.RequestResponse, 0, len(r.Data.Responses))

	for _, val := range r.Data.Responses {
		var values []variable.Variable

		for _, resp := range val.Response {
			modRevision := resp.ModRevision
			if modRevision == 0 && r.Revision != 0 {
				modRevision = r.Revision
			}

			values = append(values, variable.New(string(resp.Path), resp.Value, modRevision))
		}

		results = append(results, tx.RequestResponse{Values: values})
	}

	return tx.Response{
		Succeeded: r.Data.IsSuccess,
		Results:   results,
	}
}

type txnRequest struct {
	_msgpack struct{} `msgpack:",omitempty"` //nolint:unused

	Predicates []tkvPredicate `msgpack:"predicates"`
	OnSuccess  []tkvOperation `msgpack:"on_success"`
	OnFailure  []tkvOperation `msgpack:"on_failure"`
}

func newTxnRequest(
	predicates []predicate.Predicate,
	onSuccess []operation.Operation,
	onFailure []operation.Operation,
) txnRequest {
	return txnRequest{
		_msgpack:   struct{}{},
		Predicates: newTKVPredicates(predicates),
		OnSuccess:  newTKVOperations(onSuccess),
		OnFailure:  newTKVOperations(onFailure),
	}
}
