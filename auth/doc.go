// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and ID generation utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(adminID, salt)
	err := auth.ValidateAdminKey(adminID, adminKey, salt)

The key is URL-safe base64 encoded without padding. It is issued on login and
sent back on every admin request in the X-Admin-Key header, next to X-Admin-ID.

# Passwords

Admin passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

# IDs

Admin records and activity entries use random UUIDs:

	id := auth.NewRecordID()

# IP Hashing

Activity entries store a salted hash of the client IP, never the address:

	hash := auth.HashIP(ipAddress, salt)
*/
package auth
