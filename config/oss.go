package config

type OssConfig struct {
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	Region          string `json:"region" yaml:"region"`
	Bucket          string `json:"bucket" yaml:"bucket"`
	AccessKeyID     string `json:"ak" yaml:"ak"`
	AccessKeySecret string `json:"sk" yaml:"sk"`
	// CdnDomain prefix used to build public image urls
	CdnDomain string `json:"cdn_domain" yaml:"cdn_domain"`
}

func ProvideOssConfig(cfg *Config) *OssConfig {
	return cfg.Oss
}
