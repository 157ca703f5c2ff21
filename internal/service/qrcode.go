package service

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

// DefaultQRGenerator encodes a receipt lookup link for the order.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID int) ([]byte, error) {
	data := fmt.Sprintf("%s/receipt.html?order_id=%d", g.BaseURL, orderID)
	return qrcode.Encode(data, qrcode.Medium, 256)
}
