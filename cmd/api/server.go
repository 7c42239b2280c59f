package main

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	mw "github.com/Davide1809/password-health-tracker/internal/api/middlewares"
	"github.com/Davide1809/password-health-tracker/internal/api/router"
	"github.com/Davide1809/password-health-tracker/internal/breach"
	"github.com/Davide1809/password-health-tracker/internal/maintenance"
	"github.com/Davide1809/password-health-tracker/internal/metrics/analysisqueue"
	"github.com/Davide1809/password-health-tracker/internal/repository/sqlconnect"
	"github.com/Davide1809/password-health-tracker/internal/security/credcipher"
	"github.com/Davide1809/password-health-tracker/internal/storage/s3"
	"github.com/Davide1809/password-health-tracker/internal/validate"
	"github.com/Davide1809/password-health-tracker/pkg/utils"
)

func main() {
	_ = godotenv.Load("../../.env")

	if err := validate.Env(); err != nil {
		log.Fatalf("config: %v", err)
	}
	for _, warn := range validate.HardeningWarnings(os.Getenv("APP_ENV")) {
		log.Println("WARN:", warn)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":3000"
	} else if port[0] != ':' {
		port = ":" + port
	}

	rdb := connectRedis()
	if err := validate.PingRedis(rdb, 3*time.Second); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Println("Connected to Redis")

	db, err := sqlconnect.ConnectDB()
	if err != nil {
		log.Fatalf("Postgres connection failed: %v", err)
	}
	defer db.Close()
	log.Println("Connected to Postgres")

	// The credential key is injected; in production a missing key is fatal.
	key, err := credcipher.LoadKey()
	if err != nil {
		log.Fatalf("credential encryption key: %v", err)
	}
	cipher, err := credcipher.New(key)
	if err != nil {
		log.Fatalf("credential cipher: %v", err)
	}

	checker := breach.New(rdb)

	analysisqueue.Start(db, 10000, 2)
	defer analysisqueue.Shutdown()
	maintenance.StartAnalysisEventsRetention(context.Background(), db, 90, "03:00", "UTC")

	var storage *s3.S3Client
	if os.Getenv("AWS_BUCKET") != "" {
		storage, err = s3.NewR2Client(context.Background())
		if err != nil {
			log.Fatalf("object storage: %v", err)
		}
	}

	tb := mw.NewRedisTokenBucket(rdb, 5, 20, mw.PerIPKey("tb"))
	sw := mw.NewRedisSlidingWindow(rdb, 3000, 60*time.Minute, mw.PerIPKey("sw"))

	hppOptions := mw.HPPOptions{
		CheckQuery:                  true,
		CheckBody:                   true,
		CheckBodyOnlyForContentType: "application/x-www-form-urlencoded",
		Whitelist: []string{
			// General / shared
			"id", "user_id", "limit", "offset",

			// Auth
			"username", "email", "password", "token", "session_id",

			// Credentials
			"site_label", "site_username", "notes", "created_at", "updated_at",

			// Analysis
			"length", "include_special", "include_numbers",
		},
	}

	h := router.Router(router.Deps{
		DB:      db,
		RDB:     rdb,
		Cipher:  cipher,
		Checker: checker,
		Storage: storage,
	})

	secureMux := utils.ApplyMiddleware(
		h,
		mw.Recovery,
		mw.RequestID,
		mw.Cors,
		mw.ResponseTimeMiddleware,
		mw.BodySizeLimit,
		mw.HPP(hppOptions),
		tb.Middleware,
		sw.Middleware,
		mw.Compression,
		mw.SecurityHeaders,
	)

	server := &http.Server{
		Addr:              port,
		Handler:           secureMux,
		ReadHeaderTimeout: 5 * time.Second,
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
	}

	log.Println("Server is running on port:", port)

	cert, certKey := "cert.pem", "key.pem"
	if _, err := os.Stat(cert); err == nil {
		err = server.ListenAndServeTLS(cert, certKey)
	} else {
		err = server.ListenAndServe()
	}
	if err != nil {
		log.Fatalln("Error starting server:", err)
	}
}

func connectRedis() *redis.Client {
	if url := os.Getenv("UPSTASH_REDIS_URL"); url != "" {
		// Path A: full Upstash URL
		opt, err := redis.ParseURL(url) // e.g. rediss://default:<token>@host:port
		if err != nil {
			log.Fatalf("invalid UPSTASH_REDIS_URL: %v", err)
		}
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		opt.DialTimeout = 5 * time.Second
		opt.ReadTimeout = 1 * time.Second
		opt.WriteTimeout = 1 * time.Second
		return redis.NewClient(opt)
	}

	// Path B: split fields
	addr := os.Getenv("REDIS_ADDR")
	pass := os.Getenv("REDIS_PASSWORD")
	if addr == "" {
		log.Fatal("missing Redis config: set UPSTASH_REDIS_URL or REDIS_ADDR")
	}
	opts := &redis.Options{
		Addr:         addr,
		Username:     os.Getenv("REDIS_USER"),
		Password:     pass,
		DB:           0,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}
	if pass != "" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return redis.NewClient(opts)
}
