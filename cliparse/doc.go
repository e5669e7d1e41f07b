// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse parses configuration from CLI flags with environment
variable fallback. Flags win over env vars; missing required settings
(DATABASE_URL, TOKEN_HASH_SALT) are hard errors at startup.

The duplicate-identity policy lives here too: -unique-ip and
-device-cooldown select which identity dimensions the duplicate guard
enforces, since the right scheme is a deployment choice rather than a
fixed design decision.
*/
package cliparse
