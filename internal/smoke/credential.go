package smoke

import (
	"context"
	"fmt"

	"medreport-probe/pkg/config"
	"medreport-probe/pkg/secrets"
)

// InjectCredential 从配置的 secret store 读取凭据并写入本进程环境变量 cfg.EnvVar，之后启动的 CLI 子进程继承它。
// 返回注入的值供输出脱敏；空串表示未注入（未配置或读取失败），调用方按警告处理
func InjectCredential(ctx context.Context, cfg config.CredentialConfig) (string, error) {
	if cfg.EnvVar == "" || cfg.Key == "" {
		return "", nil
	}
	store, err := secrets.NewStore(secrets.Config{
		Provider: cfg.Provider,
		Vault: secrets.VaultConfig{
			Address:    cfg.Vault.Address,
			Token:      cfg.Vault.Token,
			PathPrefix: cfg.Vault.PathPrefix,
		},
	})
	if err != nil {
		return "", err
	}
	if cfg.Provider == "memory" && cfg.Value != "" {
		if err := store.Set(ctx, cfg.Key, cfg.Value); err != nil {
			return "", err
		}
	}

	value, err := store.Get(ctx, cfg.Key)
	if err != nil {
		return "", fmt.Errorf("credential %s: %w", cfg.Key, err)
	}
	if err := secrets.NewEnvStore().Set(ctx, cfg.EnvVar, value); err != nil {
		return "", fmt.Errorf("export %s: %w", cfg.EnvVar, err)
	}
	return value, nil
}
