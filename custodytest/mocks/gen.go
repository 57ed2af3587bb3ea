package mocks

//go:generate mockgen -destination=env.go -package=mocks github.com/iov-one/custody Env
