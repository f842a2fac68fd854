package config

type (
	InternalConfig struct {
		App        App
		Session    AppSession
		FormSource AppFormSource
		Wallet     AppWallet
		JWT        AppJWT
		Submission AppSubmission
	}

	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}

	App struct {
		Env                        string
		Port                       string
		Version                    string
		Address                    string
		Timezone                   string
		EndpointPrefix             string
		MaxRequests                int
		ShutdownTimeoutInSeconds   int
		MaxTimeRequestsPerSeconds  int
		RequestBodyLimitInMegabyte int
	}

	AppSession struct {
		// Store is either "memory" or "redis".
		Store                    string
		ExpiredTimeInMinutes     int
		LockExpiredTimeInSeconds int
	}

	AppFormSource struct {
		BaseUrl              string
		Directory            string
		HTTPTimeoutInSeconds int
	}

	AppWallet struct {
		SubmitUrl            string
		AppID                string
		APIKey               string
		HTTPTimeoutInSeconds int
	}

	AppJWT struct {
		Secret        string
		Issuer        string
		ExpTimeInHour int
	}

	AppSubmission struct {
		Constraints               []string
		ArchiveBucketName         string
		EventQueue                string
		ReceiptDBName             string
		RateLimitPerMinute        int
		RateLimitBlockTimeMinutes int
	}

	MongoDB struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Redis struct {
		Host     string
		Port     string
		Password string
	}
	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}
	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}
	Minio struct {
		Port     string
		Host     string
		Username string
		Password string
		UseSSL   bool
	}
)
