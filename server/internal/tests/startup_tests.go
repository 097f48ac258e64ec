package tests

import (
	"encoding/json"
	"faceboobs/shared/env"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// RunStartupTests probes the freshly started server and reports readiness. It
// runs after router.Run has been kicked off and never fails the process; a
// failed probe is an operator signal, not a crash.
func RunStartupTests() {
	log.Println("--- Running Startup Tests ---")

	port := env.Port
	if port == "" {
		port = "8080"
	}
	healthURL := fmt.Sprintf("http://localhost:%s/api/v1/health", port)
	log.Printf("Using health URL for tests: %s", healthURL)

	initialDelay := 5 * time.Second
	log.Printf("Waiting for initial %v server startup grace period...", initialDelay)
	time.Sleep(initialDelay)

	log.Println("Probing server readiness...")
	serverReady := false
	maxRetries := 15
	retryInterval := 3 * time.Second
	probeClient := &http.Client{Timeout: 5 * time.Second}

	for i := 0; i < maxRetries; i++ {
		log.Printf("Attempt %d/%d: Pinging %s...", i+1, maxRetries, healthURL)
		resp, err := probeClient.Get(healthURL)
		if err != nil {
			log.Printf("Probe Error (connecting): %v", err)
			log.Println("Server not ready yet...")
			time.Sleep(retryInterval)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr == nil {
				var payload map[string]any
				if json.Unmarshal(body, &payload) == nil {
					log.Printf("Health response: %v", payload)
				}
			}
			log.Println("Server is up!")
			serverReady = true
			break
		}

		resp.Body.Close()
		log.Printf("Probe returned status %d, retrying...", resp.StatusCode)
		time.Sleep(retryInterval)
	}

	if !serverReady {
		log.Println("CRITICAL: Server readiness probe failed after all retries.")
		return
	}

	checkEnvPresence()
	log.Println("--- Startup Tests Complete ---")
}

// checkEnvPresence logs which optional integrations are configured so a
// misconfigured deploy is visible in the startup log.
func checkEnvPresence() {
	if env.EVMRPCURL == "" {
		log.Println("WARN: EVM_RPC_URL not set. Purchases and paid posts are disabled.")
	} else {
		log.Println("INFO: EVM chain endpoint configured.")
	}
	if env.ContractAddress == "" {
		log.Println("WARN: CONTRACT_ADDRESS not set.")
	}
	if env.ServicePrivateKey == "" {
		log.Println("WARN: SERVICE_PRIVATE_KEY not set. Content registration and withdrawals are disabled.")
	}
	if env.TelegramBotToken == "" {
		log.Println("INFO: Telegram integration not configured; ops alerts disabled.")
	}
	if env.DATABASE_URL == "" {
		log.Println("INFO: DATABASE_URL not set; using PG*/LOCAL_* variables.")
	}
}
