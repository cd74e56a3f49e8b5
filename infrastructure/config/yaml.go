package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML config document's shape (§6's configuration
// surface): providers, models, and sparqlEndpoints are naturally nested
// lists that env vars alone can't express, so a YAML file is the primary
// surface for them, with SEMEM_* env vars able to override scalar leaves
// afterward (LoadConfig).
type fileConfig struct {
	Models struct {
		Chat struct {
			Provider string            `yaml:"provider"`
			Model    string            `yaml:"model"`
			Options  map[string]string `yaml:"options"`
		} `yaml:"chat"`
		Embedding struct {
			Provider string            `yaml:"provider"`
			Model    string            `yaml:"model"`
			Options  map[string]string `yaml:"options"`
		} `yaml:"embedding"`
	} `yaml:"models"`
	LLMProviders []struct {
		Type           string   `yaml:"type"`
		Capabilities   []string `yaml:"capabilities"`
		Priority       int      `yaml:"priority"`
		ChatModel      string   `yaml:"chatModel"`
		EmbeddingModel string   `yaml:"embeddingModel"`
		APIKey         string   `yaml:"apiKey"`
		BaseURL        string   `yaml:"baseUrl"`
	} `yaml:"llmProviders"`
	SPARQLEndpoints []struct {
		Label    string `yaml:"label"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		URLBase  string `yaml:"urlBase"`
		Dataset  string `yaml:"dataset"`
		Query    string `yaml:"query"`
		Update   string `yaml:"update"`
	} `yaml:"sparqlEndpoints"`
}

// LoadFromFile reads a YAML config document at path, resolves ${VAR}
// templates in every string field it loads, and merges the result onto
// base (base's env-derived fields take precedence for scalars the file
// doesn't set; provider/endpoint lists are wholly replaced when present).
func LoadFromFile(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc fileConfig
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	cfg := *base

	if doc.Models.Chat.Provider != "" {
		cfg.Models.Chat = ModelSelection{
			Provider: ResolveEnv(doc.Models.Chat.Provider),
			Model:    ResolveEnv(doc.Models.Chat.Model),
			Options:  resolveMap(doc.Models.Chat.Options),
		}
	}
	if doc.Models.Embedding.Provider != "" {
		cfg.Models.Embedding = ModelSelection{
			Provider: ResolveEnv(doc.Models.Embedding.Provider),
			Model:    ResolveEnv(doc.Models.Embedding.Model),
			Options:  resolveMap(doc.Models.Embedding.Options),
		}
	}

	if len(doc.LLMProviders) > 0 {
		providers := make([]ProviderEntry, 0, len(doc.LLMProviders))
		for _, p := range doc.LLMProviders {
			capabilities := make([]string, len(p.Capabilities))
			for i, c := range p.Capabilities {
				capabilities[i] = ResolveEnv(c)
			}
			providers = append(providers, ProviderEntry{
				Type:           ResolveEnv(p.Type),
				Capabilities:   capabilities,
				Priority:       p.Priority,
				ChatModel:      ResolveEnv(p.ChatModel),
				EmbeddingModel: ResolveEnv(p.EmbeddingModel),
				APIKey:         ResolveEnv(p.APIKey),
				BaseURL:        ResolveEnv(p.BaseURL),
			})
		}
		cfg.Providers = providers
	}

	if len(doc.SPARQLEndpoints) > 0 {
		endpoints := make([]SPARQLEndpoint, 0, len(doc.SPARQLEndpoints))
		for _, e := range doc.SPARQLEndpoints {
			endpoints = append(endpoints, SPARQLEndpoint{
				Label:    ResolveEnv(e.Label),
				User:     ResolveEnv(e.User),
				Password: ResolveEnv(e.Password),
				URLBase:  ResolveEnv(e.URLBase),
				Dataset:  ResolveEnv(e.Dataset),
				Query:    ResolveEnv(e.Query),
				Update:   ResolveEnv(e.Update),
			})
		}
		cfg.SPARQLEndpoints = endpoints
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolveMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = ResolveEnv(v)
	}
	return out
}
