package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

const quoteURL = "http://localhost:8080/checkout/quote"

func main() {
	for {
		var wg sync.WaitGroup
		for range rand.Intn(10) {
			wg.Go(doRequest)
		}
		wg.Wait()
		time.Sleep(20 * time.Millisecond)
	}
}

func doRequest() {
	body := fmt.Sprintf(`{
		"store_id": 1,
		"delivery_type": "delivery",
		"city_id": %d,
		"items": [
			{"product_id": 1, "product_name": "Test product", "quantity": %d, "unit_price": "%d.00"}
		]
	}`, rand.Intn(20)+1, rand.Intn(3)+1, rand.Intn(900)+100)

	resp, err := http.Post(quoteURL, "application/json", bytes.NewBufferString(body))
	if err != nil {
		fmt.Println("request failed:", err)
		return
	}
	fmt.Println("POST", quoteURL, "->", resp.Status)
	resp.Body.Close()
}
