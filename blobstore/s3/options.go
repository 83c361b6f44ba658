package s3

import (
	"github.com/aws/aws-sdk-go-v2/config"
)

// UploadConfig configures the S3 upload manager.
type UploadConfig struct {
	// PartSize is the part size of multipart uploads.
	// Default: 8MB.
	PartSize int64

	// Concurrency is the number of parts uploaded in parallel.
	// Default: 5.
	Concurrency int

	// EnableChecksum requests CRC32C integrity validation.
	// Default: true.
	EnableChecksum bool

	// LeavePartsOnError keeps uploaded parts of a failed multipart upload
	// instead of aborting it.
	// Default: false.
	LeavePartsOnError bool
}

// DefaultUploadConfig returns the default upload settings.
func DefaultUploadConfig() UploadConfig {
	return UploadConfig{
		PartSize:       8 * 1024 * 1024,
		Concurrency:    5,
		EnableChecksum: true,
	}
}

type options struct {
	prefix       string
	region       string
	endpoint     string
	usePathStyle bool
	upload       UploadConfig
	loadOptions  []func(*config.LoadOptions) error
}

// Option configures a Store.
type Option func(*options)

func applyOptions(opts []Option) options {
	o := options{upload: DefaultUploadConfig()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WithPrefix prepends prefix to every key (e.g. "models/").
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// WithRegion overrides the region of the default AWS configuration.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithEndpoint points the client at an S3-compatible endpoint. Path-style
// addressing is enabled as most such services require it.
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		o.endpoint = endpoint
		o.usePathStyle = true
	}
}

// WithUploadConfig replaces the upload settings.
func WithUploadConfig(cfg UploadConfig) Option {
	return func(o *options) {
		o.upload = cfg
	}
}

// WithLoadOptions passes options to config.LoadDefaultConfig.
func WithLoadOptions(fns ...func(*config.LoadOptions) error) Option {
	return func(o *options) {
		o.loadOptions = append(o.loadOptions, fns...)
	}
}
