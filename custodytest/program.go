package custodytest

import "github.com/iov-one/custody"

// Program is a custody.Program that runs Fn, if set, and counts its calls.
type Program struct {
	Fn func(ctx custody.Context, env custody.Env, accounts []*custody.AccountInfo, data []byte) error

	calls int
}

var _ custody.Program = (*Program)(nil)

func (p *Program) Process(ctx custody.Context, env custody.Env, accounts []*custody.AccountInfo, data []byte) error {
	p.calls++
	if p.Fn == nil {
		return nil
	}
	return p.Fn(ctx, env, accounts, data)
}

func (p *Program) CallCount() int {
	return p.calls
}
