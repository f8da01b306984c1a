package logger

// 统一的日志字段命名常量
// 用于确保整个项目中日志字段命名的一致性，便于日志查询和分析
const (
	// FieldTraceID 追踪 ID 字段
	FieldTraceID = "traceId"

	// FieldUID 用户 ID 字段
	FieldUID = "uid"

	// FieldAction 操作类型字段
	FieldAction = "action"

	// FieldToken 分享 Token 字段
	FieldToken = "token"

	// FieldListID 清单 ID 字段
	FieldListID = "listId"

	// FieldItemID 清单条目 ID 字段
	FieldItemID = "itemId"

	// FieldFileID 文件 ID 字段
	FieldFileID = "fileId"

	// FieldSessionID 会话 ID 字段
	FieldSessionID = "sessionId"

	// FieldIP 客户端地址字段
	FieldIP = "ip"

	// FieldCountry 国家代码字段
	FieldCountry = "country"

	// FieldReason 拒绝原因字段
	FieldReason = "reason"

	// FieldDuration 耗时字段
	FieldDuration = "duration"

	// FieldMethod 方法名称字段
	FieldMethod = "method"

	// FieldTask 任务名称字段
	FieldTask = "task"

	// FieldPath 文件路径字段
	FieldPath = "path"

	// FieldSize 文件大小字段
	FieldSize = "size"
)
