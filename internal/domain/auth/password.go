package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plain password concatenated with the server-side
// pepper.
func HashPassword(password, pepper string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password+pepper), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plain password + pepper matches the
// stored hash.
func CheckPassword(hash, password, pepper string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password+pepper)) == nil
}
