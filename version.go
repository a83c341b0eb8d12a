package sieve

// Version is the current release of the Sieve module.
const Version = "0.3.0"
