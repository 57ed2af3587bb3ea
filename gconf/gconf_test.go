package gconf

import (
	"encoding/json"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

type testConfig struct {
	Name  string `protobuf:"bytes,1,opt,name=name,proto3" json:"name,omitempty"`
	Limit uint64 `protobuf:"varint,2,opt,name=limit,proto3" json:"limit,omitempty"`
}

func (m *testConfig) Reset()         { *m = testConfig{} }
func (m *testConfig) String() string { return proto.CompactTextString(m) }
func (*testConfig) ProtoMessage()    {}

func (m *testConfig) Validate() error {
	if m.Name == "" {
		return errors.Wrap(errors.ErrInvalidArgument, "name required")
	}
	return nil
}

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *testConfig
		WantSaveErr *errors.Error
	}{
		"valid": {
			Conf: &testConfig{Name: "escrow", Limit: 42},
		},
		"invalid is never written": {
			Conf:        &testConfig{Limit: 42},
			WantSaveErr: errors.ErrInvalidArgument,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			err := Save(db, "test", tc.Conf)
			if !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %+v", err)
			}

			var got testConfig
			err = Load(db, "test", &got)
			if tc.WantSaveErr != nil {
				assert.IsErr(t, errors.ErrNotFound, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, *tc.Conf, got)
		})
	}
}

func TestLoadCorrupted(t *testing.T) {
	db := store.MemStore()
	assert.Nil(t, db.Set(Key("test"), []byte{0xff, 0xff, 0xff}))
	var got testConfig
	assert.IsErr(t, errors.ErrInvalidState, Load(db, "test", &got))
}

func TestInitConfig(t *testing.T) {
	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
		Want    testConfig
	}{
		"configured": {
			Genesis: `{"conf": {"test": {"name": "escrow", "limit": 7}}}`,
			Want:    testConfig{Name: "escrow", Limit: 7},
		},
		"missing package": {
			Genesis: `{"conf": {"other": {"name": "escrow"}}}`,
			WantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			Genesis: `{"conf": {"test": {"limit": 7}}}`,
			WantErr: errors.ErrInvalidArgument,
		},
		"malformed configuration": {
			Genesis: `{"conf": {"test": {"name": 7}}}`,
			WantErr: errors.ErrInvalidArgument,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts custody.Options
			assert.Nil(t, json.Unmarshal([]byte(tc.Genesis), &opts))

			db := store.MemStore()
			var conf testConfig
			err := InitConfig(db, opts, "test", &conf)
			if !tc.WantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.WantErr != nil {
				return
			}

			var got testConfig
			assert.Nil(t, Load(db, "test", &got))
			assert.Equal(t, tc.Want, got)
		})
	}
}
