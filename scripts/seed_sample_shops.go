// +build ignore

// Generates a synthetic shop lifecycle CSV and optionally uploads it to a
// running server. Useful for demoing the dashboard without partner exports.
//
//	go run scripts/seed_sample_shops.go
//	SHOP_COUNT=5000 SERVER_URL=http://localhost:8080 go run scripts/seed_sample_shops.go
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math/rand"
	"mime/multipart"
	"net/http"
	"os"
	"time"
)

var (
	shopCount = getEnvIntOrDefault("SHOP_COUNT", 500)
	outPath   = getEnvOrDefault("OUT_PATH", "sample_shops.csv")
	serverURL = getEnvOrDefault("SERVER_URL", "")
)

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		var i int
		fmt.Sscanf(val, "%d", &i)
		if i > 0 {
			return i
		}
	}
	return defaultVal
}

var countries = []string{"US", "GB", "DE", "CA", "AU", "FR", "NL", "SE"}

var plans = []struct {
	name  string
	price int
}{
	{"Basic plan subscription, $9/month", 9},
	{"Growth plan subscription, $29/month", 29},
	{"Pro plan subscription, $79/month", 79},
}

func main() {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatalf("create %s: %v", outPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"shop_domain", "shop_name", "shop_country", "shop_email", "date", "event", "details", "billing_date"})

	rows := 0
	for i := 0; i < shopCount; i++ {
		shopDomain := fmt.Sprintf("shop-%04d.myshopify.com", i)
		name := fmt.Sprintf("Sample Store %d", i)
		country := countries[rng.Intn(len(countries))]
		email := fmt.Sprintf("owner%d@example.com", i)

		installed := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, rng.Intn(600))
		writeRow := func(when time.Time, event, details, billing string) {
			w.Write([]string{shopDomain, name, country, email, when.Format("2006-01-02"), event, details, billing})
			rows++
		}

		writeRow(installed, "Installed", "", "")

		// Roughly two thirds of shops start a paid subscription.
		if rng.Intn(3) < 2 {
			plan := plans[rng.Intn(len(plans))]
			activated := installed.AddDate(0, 0, 1+rng.Intn(14))
			writeRow(activated, "Subscription charge activated",
				fmt.Sprintf("%s: $%d", plan.name, plan.price), activated.Format("2006-01-02"))

			// Half of those churn later.
			if rng.Intn(2) == 0 {
				ended := activated.AddDate(0, 0, 30+rng.Intn(300))
				if rng.Intn(2) == 0 {
					writeRow(ended, "Subscription charge canceled", "", "")
				} else {
					writeRow(ended, "Uninstalled", "", "")
				}
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("write csv: %v", err)
	}
	log.Printf("wrote %d rows for %d shops to %s", rows, shopCount, outPath)

	if serverURL == "" {
		return
	}
	if err := upload(serverURL, outPath); err != nil {
		log.Fatalf("upload: %v", err)
	}
}

func upload(baseURL, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return err
	}
	mw.Close()

	resp, err := http.Post(baseURL+"/api/shops/upload", mw.FormDataContentType(), &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	log.Printf("server responded %s: %s", resp.Status, out)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upload rejected: %s", resp.Status)
	}
	return nil
}
