package container

// IdentityTransform maps a string key to itself. Suitable only for keys
// that are already safe file names.
func IdentityTransform(key string) string { return key }

// IdentityCompose is the inverse of IdentityTransform.
func IdentityCompose(name string) (string, error) { return name, nil }
