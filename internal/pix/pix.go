// Package pix builds static PIX "copia e cola" payloads (EMV BR Code) and their QR codes.
package pix

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"casamento/internal/models"

	"github.com/skip2/go-qrcode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EMV field ids used by a static PIX payload
const (
	idPayloadFormat        = "00"
	idMerchantAccount      = "26"
	idMerchantCategoryCode = "52"
	idCurrency             = "53"
	idAmount               = "54"
	idCountry              = "58"
	idMerchantName         = "59"
	idMerchantCity         = "60"
	idAdditionalData       = "62"
	idCRC                  = "63"

	idGUI    = "00"
	idKey    = "01"
	idTxID   = "05"
	pixGUI   = "br.gov.bcb.pix"
	brlCode  = "986"
	noTxID   = "***"
	maxName  = 25
	maxCity  = 15
	maxTxID  = 25
	maxField = 99
)

var ErrMissingKey = errors.New("pix key is required")

// Payment describes a static charge
type Payment struct {
	Key          string
	MerchantName string
	MerchantCity string
	Amount       models.Money
	TxID         string
}

// Payload renders the BR Code string, CRC included
func (p Payment) Payload() (string, error) {
	if strings.TrimSpace(p.Key) == "" {
		return "", ErrMissingKey
	}

	account, err := field(idGUI, pixGUI)
	if err != nil {
		return "", err
	}
	key, err := field(idKey, p.Key)
	if err != nil {
		return "", err
	}

	txid := sanitize(p.TxID, maxTxID)
	if txid == "" {
		txid = noTxID
	}
	additional, err := field(idTxID, txid)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	parts := [][2]string{
		{idPayloadFormat, "01"},
		{idMerchantAccount, account + key},
		{idMerchantCategoryCode, "0000"},
		{idCurrency, brlCode},
	}
	if p.Amount > 0 {
		parts = append(parts, [2]string{idAmount, p.Amount.Decimal()})
	}
	parts = append(parts,
		[2]string{idCountry, "BR"},
		[2]string{idMerchantName, sanitize(p.MerchantName, maxName)},
		[2]string{idMerchantCity, sanitize(p.MerchantCity, maxCity)},
		[2]string{idAdditionalData, additional},
	)

	for _, part := range parts {
		f, err := field(part[0], part[1])
		if err != nil {
			return "", err
		}
		b.WriteString(f)
	}

	b.WriteString(idCRC + "04")
	b.WriteString(fmt.Sprintf("%04X", CRC16(b.String())))
	return b.String(), nil
}

// QRCode renders the payload as a PNG of the given size in pixels
func (p Payment) QRCode(size int) ([]byte, error) {
	payload, err := p.Payload()
	if err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pix qr code: %w", err)
	}
	return png, nil
}

func field(id, value string) (string, error) {
	if len(value) > maxField {
		return "", fmt.Errorf("pix field %s is %d bytes, max %d", id, len(value), maxField)
	}
	return fmt.Sprintf("%s%02d%s", id, len(value), value), nil
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// sanitize uppercases s, strips accents and anything outside printable ASCII, and truncates to n.
func sanitize(s string, n int) string {
	plain, _, err := transform.String(stripMarks, s)
	if err != nil {
		plain = s
	}

	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(plain)) {
		if r < 0x20 || r > 0x7e {
			continue
		}
		if b.Len() == n {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CRC16 is CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), as required by the BR Code checksum.
func CRC16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
