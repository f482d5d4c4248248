// Package token encodes the session token and its cookie transport. The
// token is a signed JWT carrying the user ID, email, role, and an optional
// session-version snapshot (sver) taken at issuance; tokens minted before
// versioning was introduced simply lack the claim.
package token
