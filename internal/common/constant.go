package common

// AuthorizationHeaderName is the gRPC/HTTP metadata key carrying the bearer
// token on inbound requests.
const AuthorizationHeaderName = "authorization"

// BearerPrefix is the optional scheme prefix of an authorization value.
const BearerPrefix = "Bearer "
