package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/orderreg/internal/model"
)

func writeEmail(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "order.eml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const englishOrderEmail = `From: noreply@example.com
To: office@example.com
Subject: Purchase order 12747295
Date: Wed, 08 Sep 2021 10:15:00 +0300
Content-Type: text/html; charset=utf-8

<html><body><table>
<tr><td><p>Purchase order</p></td></tr>
<tr><td><p>12747295</p></td></tr>
<tr><td><p>Date</p></td></tr>
<tr><td><p>08/09/2021</p></td></tr>
<tr><td><p>Destination</p></td></tr>
<tr><td><p>4734 / Bershka Store</p></td></tr>
<tr><td><p>Description</p></td></tr>
<tr><td><p>place sticker on showcase</p></td></tr>
</table></body></html>
`

// Russian body, windows-1251 charset, base64 transfer encoding. The decoded
// table uses all four Russian captions.
const russianOrderEmail = `From: noreply@example.com
To: office@example.com
Subject: order notification
Date: Wed, 08 Sep 2021 10:15:00 +0300
Content-Type: text/html; charset=windows-1251
Content-Transfer-Encoding: base64

PGh0bWw+PGJvZHk+PHRhYmxlPgo8dHI+PHRkPjxwPsfg6uDnIO3gIO/u6vPv6vM8L3A+PC90ZD48
L3RyPgo8dHI+PHRkPjxwPjEyNzQ3Mjk1PC9wPjwvdGQ+PC90cj4KPHRyPjx0ZD48cD7E4PLgPC9w
PjwvdGQ+PC90cj4KPHRyPjx0ZD48cD4wOC8wOS8yMDIxPC9wPjwvdGQ+PC90cj4KPHRyPjx0ZD48
cD7M5fHy7iDt4Oft4Pfl7ej/PC9wPjwvdGQ+PC90cj4KPHRyPjx0ZD48cD40NzM0IC8gzODj4Ofo
7SDIysXAPC9wPjwvdGQ+PC90cj4KPHRyPjx0ZD48cD7O7+jx4O3o5TwvcD48L3RkPjwvdHI+Cjx0
cj48dGQ+PHA+7/Do6uvl6PL8IPHy6Orl8CDt4CDi6PLw6O3zPC9wPjwvdGQ+PC90cj4KPC90YWJs
ZT48L2JvZHk+PC9odG1sPg==
`

const multipartOrderEmail = `From: noreply@example.com
To: office@example.com
Subject: Purchase order 555
Date: Mon, 04 Oct 2021 09:00:00 +0300
Content-Type: multipart/alternative; boundary="frontier"

--frontier
Content-Type: text/plain; charset=utf-8

Purchase order 555 attached.
--frontier
Content-Type: text/html; charset=utf-8
Content-Transfer-Encoding: quoted-printable

<html><body><table>
<tr><td><p>Purchase order</p></td></tr>
<tr><td><p>555</p></td></tr>
<tr><td><p>Date</p></td></tr>
<tr><td><p>04/10/2021</p></td></tr>
<tr><td><p>Destination</p></td></tr>
<tr><td><p>18 / Warehouse North</p></td></tr>
<tr><td><p>Description</p></td></tr>
<tr><td><p>replace price tags</p></td></tr>
</table></body></html>
--frontier--
`

func TestEmailParser_English(t *testing.T) {
	order, err := EmailParser{}.Parse(writeEmail(t, englishOrderEmail))
	require.NoError(t, err)

	assert.Equal(t, &model.Order{
		ID:          12747295,
		WarehouseID: 4734,
		Description: "PLACE STICKER ON SHOWCASE",
		Status:      model.StatusNew,
		Date:        time.Date(2021, time.September, 8, 0, 0, 0, 0, time.UTC),
	}, order)
}

func TestEmailParser_RussianWindows1251(t *testing.T) {
	order, err := EmailParser{}.Parse(writeEmail(t, russianOrderEmail))
	require.NoError(t, err)

	assert.Equal(t, 12747295, order.ID)
	assert.Equal(t, 4734, order.WarehouseID)
	assert.Equal(t, "ПРИКЛЕИТЬ СТИКЕР НА ВИТРИНУ", order.Description)
	assert.Equal(t, time.Date(2021, time.September, 8, 0, 0, 0, 0, time.UTC), order.Date)
}

func TestEmailParser_MultipartPrefersHTML(t *testing.T) {
	order, err := EmailParser{}.Parse(writeEmail(t, multipartOrderEmail))
	require.NoError(t, err)

	assert.Equal(t, 555, order.ID)
	assert.Equal(t, 18, order.WarehouseID)
	assert.Equal(t, "REPLACE PRICE TAGS", order.Description)
}

func TestEmailParser_MissingField(t *testing.T) {
	content := `From: noreply@example.com
Subject: broken
Content-Type: text/html; charset=utf-8

<html><body><p>nothing to see here</p></body></html>
`
	_, err := EmailParser{}.Parse(writeEmail(t, content))
	assert.Error(t, err)
}

func TestEmailParser_NotAnEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.eml")
	require.NoError(t, os.WriteFile(path, []byte("not an rfc5322 message"), 0o644))

	_, err := EmailParser{}.Parse(path)
	assert.Error(t, err)
}

func TestEmailParser_MissingFile(t *testing.T) {
	_, err := EmailParser{}.Parse(filepath.Join(t.TempDir(), "absent.eml"))
	assert.Error(t, err)
}
