/*
Package system implements the program that owns all fresh accounts.

It moves lamports between accounts it owns, creates new accounts assigned
to other programs and reassigns accounts. Every instruction starts with a
one byte tag followed by little endian fields.
*/
package system
