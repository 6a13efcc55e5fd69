package common

// SessionCookieName is the cookie that carries the admin session token on
// browser requests. CLI clients send the same token in the Authorization
// header instead.
const SessionCookieName = "auth"

// AuthorizationHeaderName is the HTTP header used by non-browser clients to
// carry the session token as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"
