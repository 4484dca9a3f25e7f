//go:build ignore
// +build ignore

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Writes a demo MercadoPago export and a Samsung Health export into OUT_DIR,
// then uploads both to API_URL unless SKIP_UPLOAD is set. The same directory
// can be fed to the server through SEED_DIR.
func main() {
	apiURL := os.Getenv("API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:8111"
	}
	outDir := os.Getenv("OUT_DIR")
	if outDir == "" {
		outDir = "testdata/demo"
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create %s: %v", outDir, err)
	}

	now := time.Now().UTC()
	financialPath := filepath.Join(outDir, "mercadopago-demo.csv")
	if err := os.WriteFile(financialPath, financialCSV(now), 0o644); err != nil {
		log.Fatalf("write financial demo: %v", err)
	}
	healthPath := filepath.Join(outDir, "samsung-health-demo.json")
	healthData, err := healthJSON(now)
	if err != nil {
		log.Fatalf("encode health demo: %v", err)
	}
	if err := os.WriteFile(healthPath, healthData, 0o644); err != nil {
		log.Fatalf("write health demo: %v", err)
	}
	log.Printf("wrote %s and %s", financialPath, healthPath)

	if os.Getenv("SKIP_UPLOAD") != "" {
		return
	}

	client := &http.Client{Timeout: 30 * time.Second}
	for domain, path := range map[string]string{"financial": financialPath, "health": healthPath} {
		if err := upload(client, apiURL, domain, path); err != nil {
			log.Fatalf("upload %s: %v", path, err)
		}
	}

	if err := verify(client, apiURL); err != nil {
		log.Fatalf("verification failed: %v", err)
	}
	log.Println("seeded data is queryable")
}

type movement struct {
	description string
	amount      string
	kind        string
	daysAgo     int
}

// Six months of salary, rent and everyday spending with a rising food trend.
func financialCSV(now time.Time) []byte {
	var movements []movement
	for month := 0; month < 6; month++ {
		base := month * 30
		food := 42000 + (5-month)*3500
		movements = append(movements,
			movement{"Transferencia recibida - Sueldo", "850000,00", "credit", base + 1},
			movement{"Pago alquiler departamento", "-320000,00", "debit", base + 3},
			movement{"Supermercado Coto", fmt.Sprintf("-%d,50", food), "debit", base + 6},
			movement{"Uber viaje", "-8500,00", "debit", base + 9},
			movement{"Pago de servicios Edesur", "-23800,00", "debit", base + 12},
			movement{"Netflix suscripción", "-7999,00", "debit", base + 15},
			movement{"Rendimientos Mercado Pago", "3120,45", "credit", base + 20},
		)
	}

	var buf bytes.Buffer
	buf.WriteString("Fecha,Descripción,Monto,Tipo,Estado,Referencia\n")
	for i, m := range movements {
		date := now.AddDate(0, 0, -m.daysAgo).Format("02/01/2006")
		fmt.Fprintf(&buf, "%s,%s,\"%s\",%s,approved,DEMO-%04d\n", date, m.description, m.amount, m.kind, i+1)
	}
	return buf.Bytes()
}

func healthJSON(now time.Time) ([]byte, error) {
	type record struct {
		Date          string `json:"date"`
		Steps         int    `json:"steps"`
		HeartRate     int    `json:"heart_rate"`
		SleepDuration int    `json:"duration_minutes"`
		SleepStage    string `json:"sleep_stage,omitempty"`
	}
	var records []record
	for day := 0; day < 30; day++ {
		records = append(records, record{
			Date:          now.AddDate(0, 0, -day).Format("2006-01-02"),
			Steps:         6000 + (day*731)%5000,
			HeartRate:     62 + day%9,
			SleepDuration: 380 + (day*17)%90,
			SleepStage:    []string{"light", "deep", "rem"}[day%3],
		})
	}
	return json.MarshalIndent(map[string]any{"data": records}, "", "  ")
}

func upload(client *http.Client, apiURL, domain, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	url := fmt.Sprintf("%s/v1/import/%s", strings.TrimRight(apiURL, "/"), domain)
	resp, err := client.Post(url, mw.FormDataContentType(), &body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	msg, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	log.Printf("imported %s into %s: %s", filepath.Base(path), domain, strings.TrimSpace(string(msg)))
	return nil
}

func verify(client *http.Client, apiURL string) error {
	resp, err := client.Get(strings.TrimRight(apiURL, "/") + "/v1/summary")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var summary struct {
		TransactionCount int `json:"transactionCount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return err
	}
	if summary.TransactionCount == 0 {
		return fmt.Errorf("summary reports no transactions")
	}
	log.Printf("summary reports %d transactions", summary.TransactionCount)
	return nil
}
