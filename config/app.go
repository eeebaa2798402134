package config

type App struct {
	Name  string `json:"name" yaml:"name"`
	Env   string `json:"env" yaml:"env"`
	Debug bool   `json:"debug" yaml:"debug"`
	// HashSalt seeds the public order number encoding.
	HashSalt string `json:"hash_salt" yaml:"hash_salt"`
}
