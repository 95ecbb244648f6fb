package catalog

// Config selects where the catalog comes from. S3 wins over Path; with
// neither set the embedded default is used.
type Config struct {
	Path string `env:"CATALOG_PATH"`

	S3Bucket         string `env:"CATALOG_S3_BUCKET"`
	S3Key            string `env:"CATALOG_S3_KEY" envDefault:"catalog.yaml"`
	S3Region         string `env:"CATALOG_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint       string `env:"CATALOG_S3_ENDPOINT"`
	S3AccessKeyID    string `env:"CATALOG_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"CATALOG_S3_SECRET_KEY"`
	S3ForcePathStyle bool   `env:"CATALOG_S3_FORCE_PATH_STYLE" envDefault:"false"`
}
