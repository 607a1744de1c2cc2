// SPDX-License-Identifier: Unlicense OR MIT

package ops

// Reader parses an ops stream.
type Reader struct {
	pc  pc
	ops *Ops
}

// EncodedOp represents an encoded op returned by Reader.
type EncodedOp struct {
	Type OpType
	// PC is the offset of the op in the stream.
	PC int
	// Ref is the index of the op's first reference.
	Ref  int
	Data []byte
	Refs []interface{}
}

type pc struct {
	data int
	refs int
}

// Reset start reading from the ops stream.
func (r *Reader) Reset(ops *Ops) {
	r.pc = pc{}
	r.ops = ops
}

func (r *Reader) Decode() (EncodedOp, bool) {
	if r.ops == nil {
		return EncodedOp{}, false
	}
	data := r.ops.Data()[r.pc.data:]
	if len(data) == 0 {
		return EncodedOp{}, false
	}
	t := OpType(data[0])
	n := t.Size()
	nrefs := t.NumRefs()
	op := EncodedOp{
		Type: t,
		PC:   r.pc.data,
		Ref:  r.pc.refs,
		Data: data[:n:n],
		Refs: r.ops.Refs()[r.pc.refs : r.pc.refs+nrefs],
	}
	r.pc.data += n
	r.pc.refs += nrefs
	return op, true
}
