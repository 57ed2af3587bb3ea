package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/crypto"
	"github.com/iov-one/custody/engine"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/sigs"
)

// Tx is the transaction format accepted by the application. All instructions
// are executed atomically.
type Tx struct {
	Instructions []*TxInstruction     `protobuf:"bytes,1,rep,name=instructions,proto3" json:"instructions,omitempty"`
	Signatures   []*sigs.StdSignature `protobuf:"bytes,2,rep,name=signatures,proto3" json:"signatures,omitempty"`
}

func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString(m) }
func (*Tx) ProtoMessage()    {}

// TxInstruction is the wire form of custody.Instruction.
type TxInstruction struct {
	Program  []byte       `protobuf:"bytes,1,opt,name=program,proto3" json:"program,omitempty"`
	Accounts []*TxAccount `protobuf:"bytes,2,rep,name=accounts,proto3" json:"accounts,omitempty"`
	Data     []byte       `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
}

func (m *TxInstruction) Reset()         { *m = TxInstruction{} }
func (m *TxInstruction) String() string { return proto.CompactTextString(m) }
func (*TxInstruction) ProtoMessage()    {}

// TxAccount is the wire form of custody.AccountMeta.
type TxAccount struct {
	Address  []byte `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	Signer   bool   `protobuf:"varint,2,opt,name=signer,proto3" json:"signer,omitempty"`
	Writable bool   `protobuf:"varint,3,opt,name=writable,proto3" json:"writable,omitempty"`
}

func (m *TxAccount) Reset()         { *m = TxAccount{} }
func (m *TxAccount) String() string { return proto.CompactTextString(m) }
func (*TxAccount) ProtoMessage()    {}

var _ sigs.SignedTx = (*Tx)(nil)

// NewTx returns an unsigned transaction carrying given instructions.
func NewTx(instructions ...custody.Instruction) *Tx {
	tx := &Tx{Instructions: make([]*TxInstruction, 0, len(instructions))}
	for _, ins := range instructions {
		wire := &TxInstruction{
			Program: ins.Program.Clone(),
			Data:    ins.Data,
		}
		for _, m := range ins.Accounts {
			wire.Accounts = append(wire.Accounts, &TxAccount{
				Address:  m.Address.Clone(),
				Signer:   m.IsSigner,
				Writable: m.IsWritable,
			})
		}
		tx.Instructions = append(tx.Instructions, wire)
	}
	return tx
}

// GetSignBytes returns the serialized transaction without signatures.
func (tx *Tx) GetSignBytes() ([]byte, error) {
	raw, err := proto.Marshal(&Tx{Instructions: tx.Instructions})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "marshal: %s", err)
	}
	return raw, nil
}

// GetSignatures implements sigs.SignedTx.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// Sign appends a signature of signer made with given sequence.
func (tx *Tx) Sign(signer crypto.Signer, chainID string, seq int64) error {
	sig, err := sigs.SignTx(signer, tx, chainID, seq)
	if err != nil {
		return err
	}
	tx.Signatures = append(tx.Signatures, sig)
	return nil
}

// Message returns the engine representation of this transaction signed by
// given addresses.
func (tx *Tx) Message(signers []custody.Address) engine.Message {
	msg := engine.Message{
		Signers:      signers,
		Instructions: make([]custody.Instruction, 0, len(tx.Instructions)),
	}
	for _, wire := range tx.Instructions {
		ins := custody.Instruction{
			Program: custody.Address(wire.Program),
			Data:    wire.Data,
		}
		for _, a := range wire.Accounts {
			ins.Accounts = append(ins.Accounts, custody.AccountMeta{
				Address:    custody.Address(a.Address),
				IsSigner:   a.Signer,
				IsWritable: a.Writable,
			})
		}
		msg.Instructions = append(msg.Instructions, ins)
	}
	return msg
}

// MarshalTx serializes the transaction for broadcasting.
func MarshalTx(tx *Tx) ([]byte, error) {
	raw, err := proto.Marshal(tx)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "marshal tx: %s", err)
	}
	return raw, nil
}

// DecodeTx parses raw transaction bytes.
func DecodeTx(raw []byte) (*Tx, error) {
	var tx Tx
	if err := proto.Unmarshal(raw, &tx); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidArgument, "parse tx: %s", err)
	}
	if len(tx.Instructions) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "no instructions")
	}
	return &tx, nil
}
