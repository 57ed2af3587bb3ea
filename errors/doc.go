/*
Package errors implements custom error interfaces for custody.

The idea is to reuse as many errors from this package as possible and define
custom package errors only when absolutely necessary. Programs that need their
own failure kinds (see x/escrow and x/token) register them with
Register(code, description); the code is the stable number a client receives
when a transaction fails.

For reusing errors - use Errxxx.New and Errxxx.Newf, or wrap with Wrap and
Wrapf. Test for a kind with Errxxx.Is(err).

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created
*/
package errors
