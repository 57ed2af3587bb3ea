package escrow

import (
	"testing"

	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
)

func TestOperationRoundTrip(t *testing.T) {
	ops := []Operation{
		InitializeOp{ExpectedAmount: 500},
		InitializeOp{},
		ExchangeOp{ExpectedAmount: 1<<64 - 1},
		BidOp{ExpectedAmount: 500, BidAmount: 600},
	}
	for _, op := range ops {
		got, err := DecodeOperation(EncodeOperation(op))
		assert.Nil(t, err)
		assert.Equal(t, op, got)
	}
}

func TestDecodeOperation(t *testing.T) {
	cases := map[string]struct {
		raw     []byte
		want    Operation
		wantErr *errors.Error
	}{
		"initialize": {
			raw:  []byte{0, 0xf4, 0x01, 0, 0, 0, 0, 0, 0},
			want: InitializeOp{ExpectedAmount: 500},
		},
		"exchange with trailing bytes": {
			raw:  []byte{1, 0x90, 0x01, 0, 0, 0, 0, 0, 0, 0xff, 0xff},
			want: ExchangeOp{ExpectedAmount: 400},
		},
		"bid": {
			raw:  []byte{2, 1, 0, 0, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0},
			want: BidOp{ExpectedAmount: 1, BidAmount: 2},
		},
		"empty": {
			raw:     nil,
			wantErr: ErrInvalidInstruction,
		},
		"short initialize": {
			raw:     []byte{0, 1, 2, 3},
			wantErr: ErrInvalidInstruction,
		},
		"tag only": {
			raw:     []byte{1},
			wantErr: ErrInvalidInstruction,
		},
		"bid without bid amount": {
			raw:     []byte{2, 1, 0, 0, 0, 0, 0, 0, 0},
			wantErr: ErrInvalidInstruction,
		},
		"unknown tag": {
			raw:     []byte{3, 1, 0, 0, 0, 0, 0, 0, 0},
			wantErr: ErrInvalidInstruction,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			op, err := DecodeOperation(tc.raw)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %q error, got %+v", tc.wantErr, err)
			}
			assert.Equal(t, tc.want, op)
		})
	}
}

func TestEncodeUnknownOperation(t *testing.T) {
	assert.Panics(t, func() {
		EncodeOperation(nil)
	})
}
