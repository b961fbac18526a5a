package domain

import "errors"

// ErrNotFound is returned when the requested resource does not exist
// upstream. Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing title, end date before start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInFlight is returned when a mutation targets a trip that already has
// an unresolved mutation in flight. Handlers should map this to HTTP 409.
var ErrInFlight = errors.New("operation already in flight")

// Operation failure kinds. The apiclient package is the sole boundary that
// translates transport and upstream failures into these; nothing above it
// inspects raw transport errors. Each kind has a fixed user-facing message,
// see UserMessage.
var (
	ErrUserFetch  = errors.New("user fetch failed")
	ErrUserCreate = errors.New("user create failed")
	ErrUserUpdate = errors.New("user update failed")
	ErrUserDelete = errors.New("user delete failed")

	ErrTripFetch  = errors.New("trip fetch failed")
	ErrTripCreate = errors.New("trip create failed")
	ErrTripUpdate = errors.New("trip update failed")
	ErrTripDelete = errors.New("trip delete failed")
	ErrTripCopy   = errors.New("trip copy failed")

	ErrSpotFetch  = errors.New("spot fetch failed")
	ErrSpotCreate = errors.New("spot create failed")
	ErrSpotUpdate = errors.New("spot update failed")
	ErrSpotDelete = errors.New("spot delete failed")

	ErrImageUpload = errors.New("image upload failed")
)

// UserMessage returns the fixed localized message shown to the user for a
// failure kind. The mapping is static: one message per operation kind,
// never derived from the underlying transport error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserFetch):
		return "ユーザー情報の取得に失敗しました。"
	case errors.Is(err, ErrUserCreate):
		return "ユーザー情報の作成に失敗しました。"
	case errors.Is(err, ErrUserUpdate):
		return "ユーザー情報の更新に失敗しました。"
	case errors.Is(err, ErrUserDelete):
		return "アカウントの削除に失敗しました。"
	case errors.Is(err, ErrTripFetch):
		return "旅行プランの取得に失敗しました。"
	case errors.Is(err, ErrTripCreate):
		return "旅行プランの作成に失敗しました。"
	case errors.Is(err, ErrTripUpdate):
		return "旅行プランの更新に失敗しました。"
	case errors.Is(err, ErrTripDelete):
		return "旅行プランの削除に失敗しました。"
	case errors.Is(err, ErrTripCopy):
		return "旅行プランのコピーに失敗しました。"
	case errors.Is(err, ErrSpotFetch):
		return "スポットの取得に失敗しました。"
	case errors.Is(err, ErrSpotCreate):
		return "スポットの作成に失敗しました。"
	case errors.Is(err, ErrSpotUpdate):
		return "スポットの更新に失敗しました。"
	case errors.Is(err, ErrSpotDelete):
		return "スポットの削除に失敗しました。"
	case errors.Is(err, ErrImageUpload):
		return "画像のアップロードに失敗しました。"
	case errors.Is(err, ErrNotFound):
		return "お探しのページは見つかりませんでした。"
	case errors.Is(err, ErrInFlight):
		return "処理中です。しばらくお待ちください。"
	default:
		return "エラーが発生しました。"
	}
}
