package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/imbecility/yt-resolver/pkg/catalog"
	"github.com/imbecility/yt-resolver/pkg/client"
	"github.com/imbecility/yt-resolver/pkg/downloader"
	"github.com/imbecility/yt-resolver/pkg/gateway"
	"github.com/imbecility/yt-resolver/pkg/logger"
	"github.com/imbecility/yt-resolver/pkg/providers"
)

const (
	Name      = "yt-resolver"
	EnvPrefix = "YTRESOLVER"
)

// Keys, dotted as they appear in the config file.
const (
	KeyServerHost              = "server.host"
	KeyServerPort              = "server.port"
	KeyServerReadHeaderTimeout = "server.read_header_timeout"
	KeyServerShutdownTimeout   = "server.shutdown_timeout"
	KeyMetadataEndpoint        = "metadata.endpoint"
	KeyMetadataTimeout         = "metadata.timeout"
	KeyClientTimeout           = "client.timeout"
	KeyClientInsecure          = "client.insecure_skip_verify"
	KeyResolverBaseURL         = "resolver.base_url"
	KeyProxyChunkSize          = "proxy.chunk_size"
	KeyLogDebug                = "log.debug"
	KeyLogJSON                 = "log.json"
	KeyLogSource               = "log.source"
	KeyCatalogVideo            = "catalog.video"
	KeyCatalogAudio            = "catalog.audio"
)

// EnvKeyReplacer maps "server.port" to YTRESOLVER_SERVER_PORT.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

var defaults = map[string]any{
	KeyServerHost:              "",
	KeyServerPort:              8080,
	KeyServerReadHeaderTimeout: "10s",
	KeyServerShutdownTimeout:   "15s",
	KeyMetadataEndpoint:        providers.DefaultOembedEndpoint,
	KeyMetadataTimeout:         providers.DefaultMetadataTimeout.String(),
	KeyClientTimeout:           client.DefaultTimeout.String(),
	KeyClientInsecure:          true,
	KeyResolverBaseURL:         providers.DefaultLoaderToBase,
	KeyProxyChunkSize:          downloader.DefaultChunkSize,
	KeyLogDebug:                false,
	KeyLogJSON:                 false,
	KeyLogSource:               false,
}

// FlagKeys binds command line flags to config keys. Flags win over env and file.
var FlagKeys = map[string]string{
	"host":     KeyServerHost,
	"port":     KeyServerPort,
	"debug":    KeyLogDebug,
	"log-json": KeyLogJSON,
}

// Load reads defaults, then the config file, then YTRESOLVER_* env, then flags.
// An empty path searches the working directory for yt-resolver.{yaml,toml,json};
// a missing file is only an error when path is explicit.
func Load(fs afero.Fs, flags *pflag.FlagSet, path string) (gateway.Config, error) {
	v := viper.New()
	v.SetFs(fs)

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(EnvKeyReplacer)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return gateway.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return gateway.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (gateway.Config, error) {
	cfg := gateway.Config{
		Server: gateway.ServerConfig{
			Host:              v.GetString(KeyServerHost),
			Port:              v.GetInt(KeyServerPort),
			ReadHeaderTimeout: v.GetDuration(KeyServerReadHeaderTimeout),
			ShutdownTimeout:   v.GetDuration(KeyServerShutdownTimeout),
		},
		Metadata: gateway.MetadataConfig{
			Endpoint: v.GetString(KeyMetadataEndpoint),
			Timeout:  v.GetDuration(KeyMetadataTimeout),
		},
		Client: client.Options{
			Timeout:            v.GetDuration(KeyClientTimeout),
			InsecureSkipVerify: v.GetBool(KeyClientInsecure),
		},
		ResolverBaseURL: v.GetString(KeyResolverBaseURL),
		ChunkSize:       v.GetInt(KeyProxyChunkSize),
		Log: logger.Options{
			Debug:      v.GetBool(KeyLogDebug),
			JSON:       v.GetBool(KeyLogJSON),
			ShowSource: v.GetBool(KeyLogSource),
		},
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return gateway.Config{}, fmt.Errorf("%s: port %d out of range", KeyServerPort, cfg.Server.Port)
	}

	var ladders catalog.Ladders
	if v.IsSet(KeyCatalogVideo) {
		if err := v.UnmarshalKey(KeyCatalogVideo, &ladders.Video); err != nil {
			return gateway.Config{}, fmt.Errorf("%s: %w", KeyCatalogVideo, err)
		}
	}
	if v.IsSet(KeyCatalogAudio) {
		if err := v.UnmarshalKey(KeyCatalogAudio, &ladders.Audio); err != nil {
			return gateway.Config{}, fmt.Errorf("%s: %w", KeyCatalogAudio, err)
		}
	}
	cfg.Ladders = ladders

	return cfg.WithDefaults(), nil
}
