package workflows

// StatusResult describes the installation without touching the master key.
type StatusResult struct {
	InstallationID string `json:"installation_id"`
	DataDir        string `json:"data_dir"`
	ConfigPath     string `json:"config_path"`
	KeyFile        string `json:"key_file"`
	KeyFileExists  bool   `json:"key_file_exists"`
	Backend        string `json:"backend"`
	Workers        int    `json:"workers"`
}

// Status reports where keyward keeps its state and whether a master key
// has been generated.
func Status(env *Env) (*StatusResult, error) {
	keyFile := env.Provider.Keys().KeyFile()

	exists, err := keyFile.Exists()
	if err != nil {
		return nil, err
	}

	return &StatusResult{
		InstallationID: env.Config.Installation.ID,
		DataDir:        env.Settings.DataDir,
		ConfigPath:     env.Settings.ConfigPath(),
		KeyFile:        keyFile.Path,
		KeyFileExists:  exists,
		Backend:        env.Backend,
		Workers:        env.Config.Crypto.Workers,
	}, nil
}
