package timezone_test

import (
	"testing"
	"time"

	"hostel/shared/constant"
	"hostel/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useLocation(t *testing.T, name string) {
	t.Helper()

	require.NoError(t, timezone.SetLocation(name))
	t.Cleanup(func() { _ = timezone.SetLocation("UTC") })
}

func TestSetLocation(t *testing.T) {
	useLocation(t, "Asia/Jakarta")

	assert.Equal(t, "Asia/Jakarta", timezone.GetLocation().String())
	assert.Equal(t, "Asia/Jakarta", timezone.Now().Location().String())

	assert.Error(t, timezone.SetLocation("Mars/Olympus_Mons"))
	assert.Equal(t, "Asia/Jakarta", timezone.GetLocation().String())
}

func TestSetLocationEmptyIsUTC(t *testing.T) {
	useLocation(t, "")

	assert.Equal(t, time.UTC.String(), timezone.GetLocation().String())
}

func TestParseAndFormat(t *testing.T) {
	useLocation(t, "Asia/Jakarta")

	checkIn, err := timezone.Parse(constant.DateOnlyFormat, "2024-07-01")
	require.NoError(t, err)

	assert.Equal(t, "2024-06-30T17:00:00Z", checkIn.UTC().Format(time.RFC3339))
	assert.Equal(t, "2024-07-01", timezone.Format(checkIn.UTC(), constant.DateOnlyFormat))
}

func TestStartOfDay(t *testing.T) {
	useLocation(t, "Asia/Jakarta")

	late := time.Date(2024, 7, 1, 23, 59, 0, 0, timezone.GetLocation())
	start := timezone.StartOfDay(late)

	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, timezone.GetLocation()), start)
	assert.Equal(t, timezone.StartOfDay(timezone.Now()), timezone.Today())
}
