package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/ajaypanchal761/createbharat-sub003/internal/platform/logger"
	"github.com/ajaypanchal761/createbharat-sub003/internal/repos"
	"github.com/ajaypanchal761/createbharat-sub003/internal/types"
)

// certificateNamespace seeds the deterministic certificate id. Changing it
// would re-number every issued certificate, so it is frozen.
var certificateNamespace = uuid.MustParse("7c9e3a10-52d4-4f8b-b6e1-2a90cfae61d5")

const placeholderLearnerName = "CreateBharat Learner"

// RendererService produces the certificate artifact once the gate is open.
// Rendering is pure: the same record renders to identical bytes, so it is
// safe to call repeatedly and to cache downstream.
type RendererService interface {
	Render(ctx context.Context, userID, courseID uuid.UUID) (*types.CertificateArtifact, error)
}

type rendererService struct {
	log          *logger.Logger
	catalog      CatalogService
	identity     IdentityService
	progressRepo repos.CertificateProgressRepo

	titleFace font.Face
	nameFace  font.Face
	bodyFace  font.Face
	smallFace font.Face
}

func NewRendererService(
	baseLog *logger.Logger,
	catalog CatalogService,
	identity IdentityService,
	progressRepo repos.CertificateProgressRepo,
) (RendererService, error) {
	serviceLog := baseLog.With("service", "RendererService")

	regular, bold, err := loadCertificateFonts()
	if err != nil {
		return nil, fmt.Errorf("load certificate fonts: %w", err)
	}

	return &rendererService{
		log:          serviceLog,
		catalog:      catalog,
		identity:     identity,
		progressRepo: progressRepo,
		titleFace:    truetype.NewFace(bold, &truetype.Options{Size: 52}),
		nameFace:     truetype.NewFace(bold, &truetype.Options{Size: 64}),
		bodyFace:     truetype.NewFace(regular, &truetype.Options{Size: 30}),
		smallFace:    truetype.NewFace(regular, &truetype.Options{Size: 18}),
	}, nil
}

// loadCertificateFonts prefers CERTIFICATE_FONT / CERTIFICATE_FONT_BOLD paths
// and falls back to the embedded Go fonts so the service needs no assets on
// disk to run.
func loadCertificateFonts() (*truetype.Font, *truetype.Font, error) {
	regular, err := loadFontOrDefault(os.Getenv("CERTIFICATE_FONT"), goregular.TTF)
	if err != nil {
		return nil, nil, err
	}
	bold, err := loadFontOrDefault(os.Getenv("CERTIFICATE_FONT_BOLD"), gobold.TTF)
	if err != nil {
		return nil, nil, err
	}
	return regular, bold, nil
}

func loadFontOrDefault(path string, def []byte) (*truetype.Font, error) {
	raw := def
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		raw = b
	}
	return truetype.Parse(raw)
}

func (s *rendererService) Render(ctx context.Context, userID, courseID uuid.UUID) (*types.CertificateArtifact, error) {
	row, err := s.progressRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, err
	}
	if !Unlocked(row) {
		return nil, ErrCertificateLocked
	}

	course, err := s.catalog.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	name, err := s.identity.GetDisplayName(ctx, userID)
	if err != nil {
		s.log.Warn("Display name lookup failed, using placeholder", "user_id", userID, "error", err)
		name = ""
	}
	if strings.TrimSpace(name) == "" {
		name = placeholderLearnerName
	}

	issuedOn := row.UpdatedAt
	if row.PaymentConfirmedAt != nil {
		issuedOn = *row.PaymentConfirmedAt
	}
	issued := issuedOn.UTC().Format("2 January 2006")

	certID := uuid.NewSHA1(certificateNamespace, []byte(userID.String()+"|"+courseID.String()))

	png, err := s.drawCertificate(name, course.Title, issued, certID)
	if err != nil {
		return nil, fmt.Errorf("draw certificate: %w", err)
	}

	return &types.CertificateArtifact{
		CertificateID: certID,
		LearnerName:   name,
		CourseTitle:   course.Title,
		IssuedOn:      issued,
		PNG:           png,
	}, nil
}

func (s *rendererService) drawCertificate(name, courseTitle, issued string, certID uuid.UUID) ([]byte, error) {
	const (
		width  = 1200
		height = 850
	)
	dc := gg.NewContext(width, height)

	dc.SetHexColor("#fdf8ef")
	dc.DrawRectangle(0, 0, width, height)
	dc.Fill()

	dc.SetHexColor("#b8860b")
	dc.SetLineWidth(6)
	dc.DrawRectangle(30, 30, width-60, height-60)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawRectangle(44, 44, width-88, height-88)
	dc.Stroke()

	cx := float64(width) / 2

	dc.SetHexColor("#1f2937")
	dc.SetFontFace(s.titleFace)
	dc.DrawStringAnchored("CERTIFICATE OF COMPLETION", cx, 160, 0.5, 0.5)

	dc.SetFontFace(s.bodyFace)
	dc.SetHexColor("#4b5563")
	dc.DrawStringAnchored("This is to certify that", cx, 280, 0.5, 0.5)

	dc.SetFontFace(s.nameFace)
	dc.SetHexColor("#111827")
	dc.DrawStringAnchored(name, cx, 380, 0.5, 0.5)

	dc.SetHexColor("#b8860b")
	dc.SetLineWidth(2)
	nameWidth, _ := dc.MeasureString(name)
	dc.DrawLine(cx-nameWidth/2-20, 425, cx+nameWidth/2+20, 425)
	dc.Stroke()

	dc.SetFontFace(s.bodyFace)
	dc.SetHexColor("#4b5563")
	dc.DrawStringAnchored("has successfully completed the course", cx, 500, 0.5, 0.5)

	dc.SetFontFace(s.titleFace)
	dc.SetHexColor("#1f2937")
	dc.DrawStringAnchored(courseTitle, cx, 580, 0.5, 0.5)

	dc.SetFontFace(s.bodyFace)
	dc.SetHexColor("#4b5563")
	dc.DrawStringAnchored("Issued on "+issued, cx, 680, 0.5, 0.5)

	dc.SetFontFace(s.smallFace)
	dc.SetHexColor("#9ca3af")
	dc.DrawStringAnchored("Certificate ID: "+certID.String(), cx, 770, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
