package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes an operator password. Costs outside bcrypt's
// valid range fall back to the library default so a misconfigured
// AUTH_BCRYPT_COST cannot produce unverifiable hashes.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword checks a login attempt against the stored hash.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
