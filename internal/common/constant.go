package common

// APIKeySize is the number of random bytes behind an issued apikey.
// Hex encoding doubles it to 32 characters.
const APIKeySize = 16

// HealthCheckResponse is the fixed liveness string served at the root route.
const HealthCheckResponse = "Okay"
