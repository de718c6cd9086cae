package admin

import (
	"net/http"
	"sinemagic_server/handling"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// UploadImage takes a multipart "image" field, shrinks it and stores it
// with the media host. The returned URL goes into a product's image.
func (ar *AdminRoutesManager) UploadImage(w http.ResponseWriter, r *http.Request) {
	if !ar.mediaService.Enabled() {
		gecho.ServiceUnavailable(w, gecho.WithMessage("Media uploads are not configured"), gecho.Send())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, ar.mediaCfg.MaxUploadSize)
	if err := r.ParseMultipartForm(ar.mediaCfg.MaxUploadSize); err != nil {
		ar.logger.Warn("Failed to parse upload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("The image is too large or malformed"), gecho.Send())
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		gecho.BadRequest(w, gecho.WithMessage("Missing image field"), gecho.Send())
		return
	}
	defer file.Close()

	image, err := ar.mediaService.UploadProductImage(r.Context(), file)
	if err != nil {
		ar.logger.Error("Image upload failed", gecho.Field("filename", header.Filename), gecho.Field("error", err))
		handling.HandleError(err, "Unable to upload the image. Please try again", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Image uploaded"),
		gecho.WithData(image),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteImage(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "*")
	if publicID == "" {
		gecho.BadRequest(w, gecho.WithMessage("Missing image id"), gecho.Send())
		return
	}

	if err := ar.mediaService.DeleteImage(r.Context(), publicID); err != nil {
		handling.HandleError(err, "Unable to delete the image", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Image deleted"),
		gecho.Send(),
	)
}
