package transfer

import (
	"github.com/ppopth/onthefly-rlnc/ec/encode"
	"github.com/ppopth/onthefly-rlnc/ec/encode/rlnc"
	"github.com/ppopth/onthefly-rlnc/host"
	"github.com/ppopth/onthefly-rlnc/pb"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("transfer")

// EncoderFactory creates the encoder for one outgoing block
type EncoderFactory func(maxSymbols, symbolSize int) (encode.Encoder, error)

// DecoderFactory creates the decoder for one incoming block
type DecoderFactory func(maxSymbols, symbolSize int) (encode.Decoder, error)

func newRlncEncoder(maxSymbols, symbolSize int) (encode.Encoder, error) {
	return rlnc.NewEncoder(&rlnc.EncoderConfig{
		MaxSymbols: maxSymbols,
		SymbolSize: symbolSize,
	})
}

func newRlncDecoder(maxSymbols, symbolSize int) (encode.Decoder, error) {
	return rlnc.NewDecoder(&rlnc.DecoderConfig{
		MaxSymbols: maxSymbols,
		SymbolSize: symbolSize,
	})
}

// systematicEncoder is implemented by encoders that can send a symbol uncoded
type systematicEncoder interface {
	WriteSystematicPayload(index int) ([]byte, error)
}

// sendRPC marshals and sends an RPC message to a connection
func sendRPC(rpc *pb.TransferRpc, conn host.Sender) error {
	buffer, err := rpc.Marshal()
	if err != nil {
		return err
	}
	return conn.Send(buffer)
}
