package config

import (
	"fmt"
	"os/user"
	"strings"

	"github.com/cometbft/cometbft/libs/os"
)

// ReadFile resolves a short path (ex. ~/vota/.env => /home/vota/vota/.env) and checks that it exists.
func ReadFile(configFile string) (string, error) {
	expandedConfigFile := ExpandHomeDir(configFile)
	if !os.FileExists(expandedConfigFile) {
		return "", fmt.Errorf("failed to load file at: %s", configFile)
	}
	return expandedConfigFile, nil
}

func FileExists(filePath string) bool {
	return os.FileExists(ExpandHomeDir(filePath))
}

func ExpandHomeDir(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		panic(fmt.Errorf("failed to get user's home directory: %v", err))
	}
	return strings.Replace(path, "~", usr.HomeDir, 1)
}
