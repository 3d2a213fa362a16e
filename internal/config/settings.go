/* Copyright (c) 2025 Tenesys sp. z o.o.
 * SPDX-License-Identifier: BSD-3-Clause */
package config

import (
    "context"
    "errors"
    "fmt"
    "os"
    "strings"
    "sync"

    "github.com/aws/aws-sdk-go-v2/aws"
    awsconfig "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/service/ssm"
    ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// Provider resolves named settings from the environment or from AWS SSM
// Parameter Store (SETTINGS_STORE=ssm_parameters). Lookups are memoized per
// key for the process lifetime, misses included, so secrets are fetched at
// most once per run.
type Provider struct {
    mu    sync.Mutex
    src   source
    cache map[string]lookup
}

type lookup struct {
    val   string
    found bool
}

type source interface {
    get(ctx context.Context, key string) (string, bool, error)
}

type envSource struct{}

func (envSource) get(_ context.Context, key string) (string, bool, error) {
    v, ok := os.LookupEnv(strings.ToUpper(key))
    return v, ok, nil
}

type ssmSource struct{ ssm *ssm.Client }

func (s ssmSource) get(ctx context.Context, key string) (string, bool, error) {
    out, err := s.ssm.GetParameter(ctx, &ssm.GetParameterInput{Name: aws.String(key), WithDecryption: aws.Bool(true)})
    if err != nil {
        var nf *ssmtypes.ParameterNotFound
        if errors.As(err, &nf) { return "", false, nil }
        return "", false, fmt.Errorf("ssm get %s: %w", key, err)
    }
    return aws.ToString(out.Parameter.Value), true, nil
}

func NewProvider(ctx context.Context) (*Provider, error) {
    if os.Getenv("SETTINGS_STORE") == "ssm_parameters" {
        awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
        if err != nil { return nil, fmt.Errorf("aws config: %w", err) }
        return &Provider{src: ssmSource{ssm: ssm.NewFromConfig(awsCfg)}, cache: map[string]lookup{}}, nil
    }
    return &Provider{src: envSource{}, cache: map[string]lookup{}}, nil
}

// newEnvProvider is a test seam for building a Provider over the environment only.
func newEnvProvider() *Provider {
    return &Provider{src: envSource{}, cache: map[string]lookup{}}
}

func (p *Provider) resolve(ctx context.Context, key string) (string, bool, error) {
    p.mu.Lock()
    defer p.mu.Unlock()
    if c, ok := p.cache[key]; ok { return c.val, c.found, nil }
    v, found, err := p.src.get(ctx, key)
    if err != nil { return "", false, err }
    p.cache[key] = lookup{val: v, found: found}
    return v, found, nil
}

// Get returns the setting value, or def when the key is absent from the store.
func (p *Provider) Get(ctx context.Context, key, def string) (string, error) {
    v, found, err := p.resolve(ctx, key)
    if err != nil { return "", err }
    if !found { return def, nil }
    return v, nil
}

// Require returns the setting value, failing when the key is absent.
func (p *Provider) Require(ctx context.Context, key string) (string, error) {
    v, found, err := p.resolve(ctx, key)
    if err != nil { return "", err }
    if !found { return "", fmt.Errorf("setting %s not found", key) }
    return v, nil
}
