package dao

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/haierkeys/uni-task-service/internal/model"
	"github.com/haierkeys/uni-task-service/pkg/util"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 数据库类型：sqlite, mysql, postgres
	Type string `yaml:"type" default:"sqlite"`
	// sqlite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// 用户名
	UserName string `yaml:"username"`
	// 密码
	Password string `yaml:"password"`
	// 主机，mysql 为 host:port
	Host string `yaml:"host"`
	// postgres 端口
	Port int `yaml:"port" default:"5432"`
	// 数据库名
	Name string `yaml:"name"`
	// 表前缀
	TablePrefix string `yaml:"table-prefix"`
	// 启动时自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// 解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// postgres sslmode
	SSLMode string `yaml:"ssl-mode" default:"disable"`
	// 最大空闲连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// 连接最大生命周期
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// 连接最大空闲时间
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// Dao holds the database handle shared by every repository
// Dao 持有所有仓储共享的数据库句柄
type Dao struct {
	Db     *gorm.DB
	logger *zap.Logger
}

func New(db *gorm.DB, logger *zap.Logger) *Dao {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dao{Db: db, logger: logger}
}

// WithContext 返回绑定上下文的会话
func (d *Dao) WithContext(ctx context.Context) *gorm.DB {
	return d.Db.WithContext(ctx)
}

// Transaction runs fn in a transaction bound to ctx
// Transaction 在绑定 ctx 的事务中执行 fn
func (d *Dao) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.Db.WithContext(ctx).Transaction(fn)
}

// Migrate 执行全部模型迁移
func (d *Dao) Migrate() error {
	return errors.Wrap(model.AutoMigrate(d.Db), "dao: migrate")
}

func NewDBEngine(c DatabaseConfig, runMode string) (*gorm.DB, error) {
	dialector, err := useDialector(c)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: nowUTC,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   c.TablePrefix, // 表名前缀，`User` 的表名应该是 `t_user`
			SingularTable: true,          // 使用单数表名
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "dao: open database")
	}
	if runMode == "debug" {
		db.Config.Logger = logger.Default.LogMode(logger.Info)
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SetMaxIdleConns 用于设置连接池中空闲连接的最大数量。
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	// SetMaxOpenConns 设置打开数据库连接的最大数量。
	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	// SetConnMaxLifetime 设置了连接可复用的最大时间。
	sqlDB.SetConnMaxLifetime(util.MustParseDuration(c.ConnMaxLifetime, 30*time.Minute))
	sqlDB.SetConnMaxIdleTime(util.MustParseDuration(c.ConnMaxIdleTime, 10*time.Minute))

	return db, nil
}

func useDialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(c.Type) {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=UTC",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			c.Charset,
			c.ParseTime,
		)), nil
	case "postgres", "postgresql":
		return postgres.Open(fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.Host,
			c.Port,
			c.UserName,
			c.Password,
			c.Name,
			c.SSLMode,
		)), nil
	case "sqlite", "":
		if c.Path != ":memory:" && !strings.HasPrefix(c.Path, "file:") {
			if err := os.MkdirAll(filepath.Dir(c.Path), os.ModePerm); err != nil {
				return nil, errors.Wrap(err, "dao: create sqlite dir")
			}
		}
		return sqlite.Open(c.Path), nil
	}
	return nil, fmt.Errorf("dao: unsupported database type %q", c.Type)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}

// notFound maps gorm.ErrRecordNotFound to the given domain error
func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
