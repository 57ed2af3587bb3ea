package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/gconf"
)

// ConfigPkg is the name under which the configuration is stored.
const ConfigPkg = "escrow"

// Configuration of the escrow program.
type Configuration struct {
	// TokenProgram is the only program accepted as the token ledger.
	TokenProgram []byte `protobuf:"bytes,1,opt,name=token_program,json=tokenProgram,proto3" json:"token_program,omitempty"`
	// AuctionEnabled turns on the Bid instruction.
	AuctionEnabled bool `protobuf:"varint,2,opt,name=auction_enabled,json=auctionEnabled,proto3" json:"auction_enabled,omitempty"`
}

func (m *Configuration) Reset()         { *m = Configuration{} }
func (m *Configuration) String() string { return proto.CompactTextString(m) }
func (*Configuration) ProtoMessage()    {}

var _ gconf.Configuration = (*Configuration)(nil)

func (m *Configuration) Validate() error {
	if err := custody.Address(m.TokenProgram).Validate(); err != nil {
		return errors.Wrap(err, "token program")
	}
	return nil
}

// LoadConfiguration returns the configuration stored in the database.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, ConfigPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load escrow configuration")
	}
	return &conf, nil
}
