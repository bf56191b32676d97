package pictor

// Version is the library version reported in the User-Agent header.
const Version = "0.3.0"

// UserAgent is the fixed client identification header value attached to
// every outgoing request.
const UserAgent = "pictor/" + Version
