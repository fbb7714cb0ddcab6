package txbuilder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/shadowpurse/wallet-core/internal/commitment"
	"github.com/shadowpurse/wallet-core/internal/corerr"
	"github.com/shadowpurse/wallet-core/internal/curve"
	"github.com/shadowpurse/wallet-core/internal/rangeproof"
)

const wireVersion = 1

// Serialize encodes the transaction to a self-describing binary form.
// Lengths and counts are big-endian; the fee field is little-endian, per
// this module's wire convention for that field.
func (tx *PrivateTransaction) Serialize() []byte {
	var buf bytes.Buffer
	buf.WriteByte(wireVersion)

	writeUint32(&buf, uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf.Write(in.PrevTxHash[:])
		writeUint32(&buf, in.PrevIndex)
		buf.Write(in.Commitment.Bytes())
		writeUint32(&buf, uint32(len(in.Signature)))
		buf.Write(in.Signature)
	}

	writeUint32(&buf, uint32(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		writeUint32(&buf, uint32(len(out.Address)))
		buf.Write(out.Address)
		buf.Write(out.Commitment.Bytes())
		writeUint32(&buf, uint32(len(out.EncryptedAmount)))
		buf.Write(out.EncryptedAmount)
	}

	writeUint32(&buf, uint32(len(tx.RangeProofs)))
	for _, p := range tx.RangeProofs {
		pb := p.Bytes()
		writeUint32(&buf, uint32(len(pb)))
		buf.Write(pb)
	}

	var feeBuf [8]byte
	binary.LittleEndian.PutUint64(feeBuf[:], tx.Fee)
	buf.Write(feeBuf[:])

	writeUint32(&buf, uint32(len(tx.Metadata)))
	buf.Write(tx.Metadata)

	return buf.Bytes()
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", corerr.ErrSerialization, err)
	}
	return binary.BigEndian.Uint32(b[:]), nil
}

func serErr(err error) error {
	return fmt.Errorf("%w: %v", corerr.ErrSerialization, err)
}

// Deserialize decodes a transaction previously produced by Serialize.
func Deserialize(data []byte) (*PrivateTransaction, error) {
	r := bytes.NewReader(data)

	version, err := r.ReadByte()
	if err != nil {
		return nil, serErr(err)
	}
	if version != wireVersion {
		return nil, fmt.Errorf("%w: unsupported transaction wire version %d", corerr.ErrSerialization, version)
	}

	numInputs, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	inputs := make([]Input, numInputs)
	for i := range inputs {
		var in Input
		if _, err := io.ReadFull(r, in.PrevTxHash[:]); err != nil {
			return nil, serErr(err)
		}
		if in.PrevIndex, err = readUint32(r); err != nil {
			return nil, err
		}
		var cb [curve.PointSize]byte
		if _, err := io.ReadFull(r, cb[:]); err != nil {
			return nil, serErr(err)
		}
		c, err := commitment.FromBytes(cb[:])
		if err != nil {
			return nil, serErr(err)
		}
		in.Commitment = c

		sigLen, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		if sigLen > 0 {
			sig := make([]byte, sigLen)
			if _, err := io.ReadFull(r, sig); err != nil {
				return nil, serErr(err)
			}
			in.Signature = sig
		}
		inputs[i] = in
	}

	numOutputs, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	outputs := make([]Output, numOutputs)
	for i := range outputs {
		var out Output
		addrLen, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		if addrLen > 0 {
			addr := make([]byte, addrLen)
			if _, err := io.ReadFull(r, addr); err != nil {
				return nil, serErr(err)
			}
			out.Address = addr
		}

		var cb [curve.PointSize]byte
		if _, err := io.ReadFull(r, cb[:]); err != nil {
			return nil, serErr(err)
		}
		c, err := commitment.FromBytes(cb[:])
		if err != nil {
			return nil, serErr(err)
		}
		out.Commitment = c

		encLen, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		if encLen > 0 {
			enc := make([]byte, encLen)
			if _, err := io.ReadFull(r, enc); err != nil {
				return nil, serErr(err)
			}
			out.EncryptedAmount = enc
		}
		outputs[i] = out
	}

	numProofs, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	proofs := make([]*rangeproof.Proof, numProofs)
	for i := range proofs {
		proofLen, err := readUint32(r)
		if err != nil {
			return nil, err
		}
		proofBytes := make([]byte, proofLen)
		if _, err := io.ReadFull(r, proofBytes); err != nil {
			return nil, serErr(err)
		}
		proof, err := rangeproof.Parse(proofBytes)
		if err != nil {
			return nil, serErr(err)
		}
		proofs[i] = proof
	}

	var feeBuf [8]byte
	if _, err := io.ReadFull(r, feeBuf[:]); err != nil {
		return nil, serErr(err)
	}
	fee := binary.LittleEndian.Uint64(feeBuf[:])

	metaLen, err := readUint32(r)
	if err != nil {
		return nil, err
	}
	var metadata []byte
	if metaLen > 0 {
		metadata = make([]byte, metaLen)
		if _, err := io.ReadFull(r, metadata); err != nil {
			return nil, serErr(err)
		}
	}

	return &PrivateTransaction{
		Inputs:      inputs,
		Outputs:     outputs,
		RangeProofs: proofs,
		Fee:         fee,
		Metadata:    metadata,
	}, nil
}
