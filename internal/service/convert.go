package service

import (
	"github.com/haierkeys/uni-task-service/internal/domain"
	"github.com/haierkeys/uni-task-service/internal/dto"

	"github.com/dustin/go-humanize"
	"github.com/jinzhu/copier"
)

func todoListDTO(l *domain.TodoList) *dto.TodoListDTO {
	if l == nil {
		return nil
	}
	return &dto.TodoListDTO{
		ID:          l.ID,
		UserID:      l.UserID,
		CourseID:    l.CourseID,
		CategoryID:  l.CategoryID,
		Title:       l.Title,
		Description: l.Description,
		TaskType:    string(l.TaskType),
		Priority:    string(l.Priority),
		Status:      string(l.Status),
		IsPersonal:  l.IsPersonal(),
		Deadline:    l.Deadline,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func todoItemDTO(i *domain.TodoItem) (*dto.TodoItemDTO, error) {
	d := &dto.TodoItemDTO{}
	if err := copier.Copy(d, i); err != nil {
		return nil, err
	}
	return d, nil
}

func todoItemDTOs(items []*domain.TodoItem) ([]*dto.TodoItemDTO, error) {
	out := make([]*dto.TodoItemDTO, 0, len(items))
	for _, i := range items {
		d, err := todoItemDTO(i)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func fileDTO(f *domain.File) (*dto.FileDTO, error) {
	d := &dto.FileDTO{}
	if err := copier.Copy(d, f); err != nil {
		return nil, err
	}
	d.SizeHuman = humanize.Bytes(uint64(max(f.Size, 0)))
	return d, nil
}

func fileDTOs(files []*domain.File) ([]*dto.FileDTO, error) {
	out := make([]*dto.FileDTO, 0, len(files))
	for _, f := range files {
		d, err := fileDTO(f)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
