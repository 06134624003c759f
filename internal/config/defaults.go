package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/findword/data/db/words.db"
	}
	if cfg.Storage.IndexPath == "" {
		cfg.Storage.IndexPath = "/usr/local/var/findword/data/indices/bleve"
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = "/usr/local/var/findword/data/models/wiki-news-300d-1M.vec"
	}
	if cfg.Search.DefaultLimit == 0 {
		cfg.Search.DefaultLimit = 10
	}
	if cfg.Ingest.RawWordsDir == "" {
		cfg.Ingest.RawWordsDir = "/usr/local/var/findword/data/raw_words"
	}
	if cfg.Ingest.ClassifiedCSV == "" {
		cfg.Ingest.ClassifiedCSV = "/usr/local/var/findword/data/words_classified.csv"
	}
	if cfg.Ingest.WordsCSV == "" {
		cfg.Ingest.WordsCSV = "/usr/local/var/findword/data/words.csv"
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 1000
	}
	if cfg.Ingest.ErrorLog == "" {
		cfg.Ingest.ErrorLog = "/usr/local/var/findword/data/loadwords_errors.log"
	}
}
