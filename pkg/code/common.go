package code

import "net/http"

// Success codes
// 成功码
var (
	Success       = NewSuss(1, http.StatusOK, lang{en: "Success", id: "Berhasil"})
	SuccessCreate = NewSuss(2, http.StatusCreated, lang{en: "Created successfully", id: "Berhasil dibuat"})
	SuccessUpdate = NewSuss(3, http.StatusOK, lang{en: "Updated successfully", id: "Berhasil diperbarui"})
	SuccessDelete = NewSuss(4, http.StatusOK, lang{en: "Deleted successfully", id: "Berhasil dihapus"})
	SuccessJoin   = NewSuss(5, http.StatusOK, lang{en: "Joined collaborative session", id: "Bergabung ke sesi kolaborasi"})
	SuccessLeave  = NewSuss(6, http.StatusOK, lang{en: "Left collaborative session", id: "Keluar dari sesi kolaborasi"})
	SuccessNoop   = NewSuss(7, http.StatusOK, lang{en: "No active session", id: "Tidak ada sesi aktif"})
)

// Common errors
// 通用错误
var (
	ErrorServerInternal  = NewError(500, http.StatusInternalServerError, lang{en: "Internal server error", id: "Kesalahan server internal"})
	ErrorNotFoundAPI     = NewError(404, http.StatusNotFound, lang{en: "API not found", id: "API tidak ditemukan"})
	ErrorMethodNotAllow  = NewError(405, http.StatusMethodNotAllowed, lang{en: "Method not allowed", id: "Metode tidak diizinkan"})
	ErrorInvalidParams   = NewError(422, http.StatusUnprocessableEntity, lang{en: "Validation failed", id: "Validasi gagal"})
	ErrorTooManyRequests = NewError(429, http.StatusTooManyRequests, lang{en: "Too many requests", id: "Terlalu banyak permintaan"})
	ErrorUnhealthy       = NewError(503, http.StatusServiceUnavailable, lang{en: "Service unhealthy", id: "Layanan tidak sehat"})
)

// Authentication errors
// 认证错误
var (
	ErrorNotUserAuthToken  = NewError(401, http.StatusUnauthorized, lang{en: "Authentication required", id: "Autentikasi diperlukan"})
	ErrorInvalidAuthToken  = NewError(1001, http.StatusUnauthorized, lang{en: "Invalid or expired token", id: "Token tidak valid atau kedaluwarsa"})
	ErrorAuthRequired      = NewError(1002, http.StatusUnauthorized, lang{en: "Authentication required for this action", id: "Autentikasi diperlukan untuk tindakan ini"})
	ErrorForbidden         = NewError(403, http.StatusForbidden, lang{en: "You do not have permission for this action", id: "Anda tidak memiliki izin untuk tindakan ini"})
	ErrorSessionIDRequired = NewError(1003, http.StatusBadRequest, lang{en: "X-Session-ID header is required", id: "Header X-Session-ID wajib diisi"})
)

// Share and collaborative errors
// 分享与协作错误
var (
	ErrorShareNotFound     = NewError(2001, http.StatusNotFound, lang{en: "Share link not found or expired", id: "Tautan berbagi tidak ditemukan atau kedaluwarsa"})
	ErrorRateLimited       = NewError(2002, http.StatusTooManyRequests, lang{en: "Too many requests. Please try again later.", id: "Terlalu banyak permintaan. Silakan coba lagi nanti."})
	ErrorDailyQuota        = NewError(2003, http.StatusTooManyRequests, lang{en: "Daily access limit exceeded for this shared list.", id: "Batas akses harian untuk daftar ini telah tercapai."})
	ErrorCapacityExceeded  = NewError(2004, http.StatusServiceUnavailable, lang{en: "Maximum concurrent users reached. Please try again later.", id: "Jumlah pengguna bersamaan maksimum tercapai. Silakan coba lagi nanti."})
	ErrorGeoRestricted     = NewError(2005, http.StatusForbidden, lang{en: "Access from your location is not allowed.", id: "Akses dari lokasi Anda tidak diizinkan."})
	ErrorShareCreateFailed = NewError(2006, http.StatusInternalServerError, lang{en: "Failed to create share link", id: "Gagal membuat tautan berbagi"})
)

// Record store errors
// 记录存储错误
var (
	ErrorTodoListNotFound = NewError(3001, http.StatusNotFound, lang{en: "Todo list not found", id: "Daftar tugas tidak ditemukan"})
	ErrorTodoItemNotFound = NewError(3002, http.StatusNotFound, lang{en: "Todo item not found", id: "Item tugas tidak ditemukan"})
	ErrorFileNotFound     = NewError(3003, http.StatusNotFound, lang{en: "File not found", id: "Berkas tidak ditemukan"})
	ErrorUserNotFound     = NewError(3004, http.StatusNotFound, lang{en: "User not found", id: "Pengguna tidak ditemukan"})
	ErrorFileTooLarge     = NewError(3005, http.StatusRequestEntityTooLarge, lang{en: "File exceeds the maximum upload size", id: "Berkas melebihi ukuran unggahan maksimum"})
	ErrorFileUploadFailed = NewError(3006, http.StatusInternalServerError, lang{en: "File upload failed", id: "Unggah berkas gagal"})
	ErrorNotEnrolled      = NewError(3007, http.StatusForbidden, lang{en: "You are not enrolled in this course", id: "Anda tidak terdaftar di mata kuliah ini"})
)
