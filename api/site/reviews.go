package site

import (
	"net/http"
	"sinemagic_server/handling"
	"sinemagic_server/lib"
	"sinemagic_server/structs"

	"github.com/MonkyMars/gecho"
)

func (srm *SiteRoutesManager) ListReviews(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(srm.content.Reviews()),
		gecho.Send(),
	)
}

func (srm *SiteRoutesManager) CreateReview(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ReviewRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "Please check your review and try again", srm.logger, w)
		return
	}

	review, err := srm.content.AddReview(r.Context(), body)
	if _, warned := handling.Warning(err); err != nil && !warned {
		handling.HandleError(err, "Unable to save your review. Please try again", srm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Thank you for your review"),
		gecho.WithData(review),
		gecho.Send(),
	)
}
