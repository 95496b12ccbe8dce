package notification

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// AccessClass is how a tier's purchase is delivered.
type AccessClass string

const (
	AccessPhysical AccessClass = "physical"
	AccessOnline   AccessClass = "online"
	AccessZoom     AccessClass = "zoom"
)

// TemplateConfig maps {item type, access class} to a transactional template id.
type TemplateConfig struct {
	Event    AccessTemplates `mapstructure:"event"`
	Workshop AccessTemplates `mapstructure:"workshop"`
}

type AccessTemplates struct {
	Physical int64 `mapstructure:"physical"`
	Online   int64 `mapstructure:"online"`
	Zoom     int64 `mapstructure:"zoom"`
}

func DefaultTemplateConfig() TemplateConfig {
	return TemplateConfig{
		Event:    AccessTemplates{Physical: 1, Online: 2, Zoom: 3},
		Workshop: AccessTemplates{Physical: 4, Online: 5, Zoom: 6},
	}
}

// TemplateHolder serves the current template mapping, reloading it when the
// optional notifications.yml changes on disk.
type TemplateHolder struct {
	current atomic.Value // holds TemplateConfig
}

func NewTemplateHolder(log *zap.Logger) (*TemplateHolder, error) {
	v := viper.New()

	v.SetConfigName("notifications")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/boxoffice")
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOXOFFICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &TemplateHolder{}

	load := func() TemplateConfig {
		cfg := DefaultTemplateConfig()
		if err := v.UnmarshalKey("templates", &cfg); err != nil {
			log.Warn("invalid notification template config, keeping defaults", zap.Error(err))
			return DefaultTemplateConfig()
		}
		return cfg
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultTemplateConfig())
	} else {
		holder.current.Store(load())
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Info("notification template config reloaded", zap.String("file", e.Name))
			holder.current.Store(load())
		})
		v.WatchConfig()
	}

	return holder, nil
}

func (h *TemplateHolder) Current() TemplateConfig {
	if cfg, ok := h.current.Load().(TemplateConfig); ok {
		return cfg
	}
	return DefaultTemplateConfig()
}

// Resolve picks the template id for a purchase. itemType is the gateway note
// value ("event" or "workshop").
func (h *TemplateHolder) Resolve(itemType string, access AccessClass) int64 {
	cfg := h.Current()

	var set AccessTemplates
	if itemType == "workshop" {
		set = cfg.Workshop
	} else {
		set = cfg.Event
	}

	switch access {
	case AccessZoom:
		return set.Zoom
	case AccessOnline:
		return set.Online
	default:
		return set.Physical
	}
}
