package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext credential for storage. Only the seeded
// administrator record uses this locally; regular credentials live with the
// identity provider.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword compares a plaintext credential against its stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
