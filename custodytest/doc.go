/*
Package custodytest provides helpers used by the tests of many custody
packages: keys and addresses, in memory and on disk stores, account
fixtures and a program implementation that counts its calls.
*/
package custodytest
