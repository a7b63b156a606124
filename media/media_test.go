package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.RGBA) *Image {
	img := Blank(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.RGBA().SetRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, img *Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img.RGBA()))
	return buf.Bytes()
}

func TestImageBasics(t *testing.T) {
	img := Blank(4, 3)
	require.Equal(t, int32(4), img.Width())
	require.Equal(t, int32(3), img.Height())
	require.Equal(t, "image(4x3)", img.String())

	named := NewImage(img.RGBA(), "a.png")
	require.Equal(t, "image(4x3, a.png)", named.String())
	require.NotSame(t, img.RGBA(), named.RGBA())
}

func TestFiltersInPlace(t *testing.T) {
	img := solid(3, 3, color.RGBA{R: 200, G: 10, B: 10, A: 255})
	before := img.RGBA()

	same := Gray(img, true)
	require.Same(t, img, same)
	require.NotSame(t, before, img.RGBA())
	c := img.RGBA().RGBAAt(1, 1)
	require.Equal(t, c.R, c.G)
	require.Equal(t, c.G, c.B)
}

func TestFiltersCopy(t *testing.T) {
	red := color.RGBA{R: 200, G: 10, B: 10, A: 255}
	img := solid(3, 3, red)
	for name, filter := range map[string]func(*Image, bool) *Image{
		"blur":     Blur,
		"gray":     Gray,
		"convolve": Convolve,
	} {
		t.Run(name, func(t *testing.T) {
			out := filter(img, false)
			require.NotSame(t, img, out)
			require.Equal(t, red, img.RGBA().RGBAAt(1, 1))
			require.Equal(t, img.Width(), out.Width())
		})
	}
}

func TestScale(t *testing.T) {
	img := Blank(4, 2)
	out, err := Scale(img, 3)
	require.NoError(t, err)
	require.Equal(t, int32(12), out.Width())
	require.Equal(t, int32(6), out.Height())
	require.Equal(t, int32(4), img.Width())

	_, err = Scale(img, 0)
	require.ErrorContains(t, err, "scale factor must be positive")
}

func TestArithmetic(t *testing.T) {
	a := solid(2, 2, color.RGBA{R: 100, G: 50, B: 10, A: 255})
	b := solid(2, 2, color.RGBA{R: 200, G: 20, B: 5, A: 255})

	sum := Add(a, b).RGBA().RGBAAt(0, 0)
	require.Equal(t, uint8(255), sum.R)
	require.InDelta(t, 70, int(sum.G), 1)

	diff := Sub(b, a).RGBA().RGBAAt(0, 0)
	require.InDelta(t, 100, int(diff.R), 1)
	require.Equal(t, uint8(0), diff.G)
	require.Equal(t, uint8(0), diff.B)

	// Operand order matters
	diff = Sub(a, b).RGBA().RGBAAt(0, 0)
	require.Equal(t, uint8(0), diff.R)
	require.InDelta(t, 30, int(diff.G), 1)
	require.InDelta(t, 5, int(diff.B), 1)

	require.Equal(t, color.RGBA{R: 255, G: 150, B: 30, A: 255}, Mul(a, 3).RGBA().RGBAAt(1, 1))

	quot, err := Div(a, 4)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 25, G: 12, B: 2, A: 255}, quot.RGBA().RGBAAt(0, 1))

	rem, err := Mod(a, 7)
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 2, G: 1, B: 3, A: 255}, rem.RGBA().RGBAAt(1, 0))

	_, err = Div(a, 0)
	require.ErrorIs(t, err, ErrDivideByZero)
	_, err = Mod(a, 0)
	require.ErrorIs(t, err, ErrDivideByZero)
}

func TestFrames(t *testing.T) {
	img := Blank(2, 2)
	f := NewFrame(img)
	require.False(t, f.Visible())
	require.Same(t, img, f.Image())

	rec := &Recorder{}
	require.NoError(t, Show(rec, f))
	require.NoError(t, Move(rec, f, 5, 7))
	require.NoError(t, Hide(rec, f))
	require.Equal(t, int32(5), f.X())
	require.Equal(t, int32(7), f.Y())
	require.Equal(t, []Event{
		{Name: "show", Visible: true},
		{Name: "move", X: 5, Y: 7, Visible: true},
		{Name: "hide", X: 5, Y: 7},
	}, rec.Events())

	other := Blank(1, 1)
	f.SetImage(other)
	require.Same(t, other, f.Image())
	require.Equal(t, "frame(5, 7, hidden, image(1x1))", f.String())
}

func TestHeadlessLogs(t *testing.T) {
	var buf bytes.Buffer
	d := NewHeadless(zerolog.New(&buf).Level(zerolog.DebugLevel))
	f := NewFrame(Blank(3, 2))
	require.NoError(t, Show(d, f))
	require.Contains(t, buf.String(), `"event":"show"`)
	require.Contains(t, buf.String(), `"width":3`)
}

func TestWriteAndReadFile(t *testing.T) {
	dir := t.TempDir()
	img := solid(3, 2, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	for _, name := range []string{"out.png", "out.jpg"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Write(img, path))
		read, err := NewLoader().ReadFile(context.Background(), path)
		require.NoError(t, err)
		require.Equal(t, int32(3), read.Width())
		require.Equal(t, path, read.Source())
	}

	// file:// URLs go through the same path
	read, err := NewLoader().ReadURL(context.Background(), "file://"+filepath.Join(dir, "out.png"))
	require.NoError(t, err)
	require.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, read.RGBA().RGBAAt(0, 0))

	_, err = NewLoader().ReadFile(context.Background(), filepath.Join(dir, "missing.png"))
	require.Error(t, err)
}

func TestReadHTTP(t *testing.T) {
	data := pngBytes(t, Blank(5, 4))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/img.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	loader := NewLoader(WithHTTPClient(srv.Client()))
	img, err := loader.ReadURL(context.Background(), srv.URL+"/img.png")
	require.NoError(t, err)
	require.Equal(t, int32(5), img.Width())

	_, err = loader.ReadURL(context.Background(), srv.URL+"/nope.png")
	require.ErrorContains(t, err, "404")
}

func TestReadURLErrors(t *testing.T) {
	loader := NewLoader()
	_, err := loader.ReadURL(context.Background(), "ftp://example.com/a.png")
	require.ErrorContains(t, err, `unsupported url scheme "ftp"`)
	_, err = loader.ReadURL(context.Background(), "s3://bucket/a.png")
	require.ErrorContains(t, err, "s3 is not configured")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = loader.ReadFile(ctx, "a.png")
	require.ErrorIs(t, err, context.Canceled)
}

type fakeS3 struct {
	objects map[string][]byte
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(params.Bucket)+"/"+aws.ToString(params.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestReadS3(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"pics/cats/a.png": pngBytes(t, Blank(2, 6)),
		"pics/bad.png":    []byte("not an image"),
	}}
	loader := NewLoader(WithS3(client))

	img, err := loader.ReadURL(context.Background(), "s3://pics/cats/a.png")
	require.NoError(t, err)
	require.Equal(t, int32(6), img.Height())
	require.Equal(t, "s3://pics/cats/a.png", img.Source())

	_, err = loader.ReadURL(context.Background(), "s3://pics/missing.png")
	require.ErrorContains(t, err, "NoSuchKey")
	_, err = loader.ReadURL(context.Background(), "s3://pics/bad.png")
	require.ErrorContains(t, err, "decode s3://pics/bad.png")
	_, err = loader.ReadURL(context.Background(), "s3://pics")
	require.ErrorContains(t, err, "expected s3://bucket/key")
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := decode(bytes.NewReader([]byte("xyz")), "mem")
	require.ErrorIs(t, err, image.ErrFormat)
}
