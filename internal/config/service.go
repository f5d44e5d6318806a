package config

type ServiceConfig struct {
	Name        string         `yaml:"name"`
	Environment string         `yaml:"environment"`
	Version     string         `yaml:"version"`
	ClientURL   string         `yaml:"client_url"`
	JWTSecret   string         `yaml:"jwt_secret"`
	YooKassa    YooKassaConfig `yaml:"yookassa"`
}

// YooKassaConfig holds the payment-provider credentials. ShopID and
// SecretKey authenticate outbound payment creation; WebhookSecret, when
// set, enables HMAC verification of inbound webhook deliveries.
type YooKassaConfig struct {
	ShopID        string `yaml:"shop_id"`
	SecretKey     string `yaml:"secret_key"`
	WebhookSecret string `yaml:"webhook_secret"`
	ReturnURL     string `yaml:"return_url"`
}
