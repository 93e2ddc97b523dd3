// Package auth holds the authentication contracts shared by the HTTP layer.
//
// Subpackages:
//
//   - auth/keys     RSA keypair loading (once per process)
//   - auth/jwt      RS256 token issuer and verifier
//   - auth/authctx  request-context propagation of the verified Principal
//   - auth/password bcrypt / argon2id password hashing
//
// Configuration:
//
//	auth:
//	  keys:
//	    private_key_path: "/run/secrets/private-key.pem"
//	    public_key_path: "/run/secrets/public-key.pem"
//	  jwt:
//	    issuer: "ingesis.uniquindio.edu.co"
//	    ttl: "1h"
//	  password:
//	    algorithm: "bcrypt"
package auth
