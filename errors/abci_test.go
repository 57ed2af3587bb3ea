package errors

import (
	"io"
	"testing"
)

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err           error
		debug         bool
		wantCode      uint32
		wantCodespace string
		wantLog       string
	}{
		"nil is success": {
			err:      nil,
			wantCode: 0,
		},
		"nil registered error is success": {
			err:      (*Error)(nil),
			wantCode: 0,
		},
		"wrapped host error": {
			err:           Wrap(Wrap(ErrNotFound, "foo"), "bar"),
			wantCode:      3,
			wantCodespace: HostCodespace,
			wantLog:       "bar: foo: not found",
		},
		"program error keeps its codespace": {
			err:           Wrap(errEscrowTest, "instruction 0"),
			wantCode:      1017,
			wantCodespace: "escrow",
			wantLog:       "instruction 0: escrow test failure",
		},
		"stdlib error is hidden": {
			err:           Wrap(io.EOF, "cannot read file"),
			wantCode:      1,
			wantCodespace: HostCodespace,
			wantLog:       "internal error",
		},
		"stdlib error is shown in debug mode": {
			err:           io.EOF,
			debug:         true,
			wantCode:      1,
			wantCodespace: HostCodespace,
			wantLog:       "EOF",
		},
		"custom coder": {
			err:           customErr{},
			wantCode:      999,
			wantCodespace: HostCodespace,
			wantLog:       "custom",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, codespace, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Errorf("want %d code, got %d", tc.wantCode, code)
			}
			if codespace != tc.wantCodespace {
				t.Errorf("want %q codespace, got %q", tc.wantCodespace, codespace)
			}
			if log != tc.wantLog {
				t.Errorf("want %q log, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestCodespace(t *testing.T) {
	cases := map[uint32]string{
		0:      "",
		1:      HostCodespace,
		13:     HostCodespace,
		1000:   HostCodespace,
		1001:   "token",
		1004:   "token",
		1010:   "escrow",
		1014:   "escrow",
		1020:   "sigs",
		1030:   HostCodespace,
		111222: HostCodespace,
	}
	for code, want := range cases {
		if got := Codespace(code); got != want {
			t.Errorf("%d: want %q, got %q", code, want, got)
		}
	}
}

func TestProgramCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"success":          {err: nil, want: 0},
		"registered":       {err: ErrMissingSignature, want: 10},
		"wrapped":          {err: Wrap(ErrIncorrectProgramID, "token"), want: 11},
		"wrapped twice":    {err: Wrapf(Wrap(ErrOverflow, "add"), "instruction %d", 2), want: 14},
		"unclassified":     {err: io.ErrUnexpectedEOF, want: 1},
		"wrapped internal": {err: Wrap(io.ErrUnexpectedEOF, "read"), want: 1},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := ProgramCode(tc.err); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

var errEscrowTest = Register(1017, "escrow test failure")

// customErr is a custom implementation of an error that provides an ABCICode
// method.
type customErr struct{}

func (customErr) ABCICode() uint32 { return 999 }

func (customErr) Error() string { return "custom" }
